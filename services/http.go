package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/iecs-iedis/casita_api/middleware"
	"github.com/iecs-iedis/casita_api/services/handlers"
	"github.com/iecs-iedis/casita_api/shared"
)

type HttpService struct {
	context.DefaultService

	visitorSvc    *VisitorService
	adSvc         *AdService
	newsSvc       *NewsService
	pagesSvc      *PagesService
	monitoringSvc *MonitoringService
	guard         *middleware.DashboardGuard

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.visitorSvc = svc.Service(VISITOR_SVC).(*VisitorService)
	svc.adSvc = svc.Service(AD_SVC).(*AdService)
	svc.newsSvc = svc.Service(NEWS_SVC).(*NewsService)
	svc.pagesSvc = svc.Service(PAGES_SVC).(*PagesService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)
	svc.guard = svc.Service(middleware.DASHBOARD_GUARD_SVC).(*middleware.DashboardGuard)

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowCredentials: false,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	pageHandler := handlers.NewPageHandler(svc.visitorSvc, svc.adSvc, svc.newsSvc, svc.pagesSvc)
	adsHandler := handlers.NewAdsHandler(svc.adSvc)
	newsHandler := handlers.NewNewsHandler(svc.newsSvc)
	loginHandler := handlers.NewLoginHandler(svc.visitorSvc)

	app.Get("/ping", svc.ping)
	app.Get("/", pageHandler.Index)
	app.Get("/ads.txt", pageHandler.AdsTxt)

	app.Get("/ad", adsHandler.RedirectAlias)
	ads := app.Group("/ads", svc.guard.Handler())
	ads.Get("/", adsHandler.Dashboard)
	ads.Post("/", adsHandler.Update)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)
	v1.Get("/noticias", newsHandler.List)
	v1.Get("/noticias/:id", newsHandler.Get)
	v1.Post("/login/internal/complete", loginHandler.InternalComplete)
	v1.Post("/login/portal/complete", loginHandler.PortalComplete)

	// Catch-all for the legacy .html pages, registered last so every API
	// route above wins.
	app.Get("/:page", pageHandler.Page)

	svc.server = app

	log.Info().Int("port", svc.port).Msg("HTTP server started")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseInternalError(c, err)
}
