package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/iecs-iedis/casita_api/dto"
	"github.com/iecs-iedis/casita_api/shared"
)

type PageHandler struct {
	visitorSvc VisitorServiceInterface
	adsSvc     AdsServiceInterface
	newsSvc    NewsServiceInterface
	pagesSvc   PagesServiceInterface
}

func NewPageHandler(visitorSvc VisitorServiceInterface, adsSvc AdsServiceInterface, newsSvc NewsServiceInterface, pagesSvc PagesServiceInterface) *PageHandler {
	return &PageHandler{
		visitorSvc: visitorSvc,
		adsSvc:     adsSvc,
		newsSvc:    newsSvc,
		pagesSvc:   pagesSvc,
	}
}

// evaluate runs the decision engine for the current request. A failure
// here degrades to serving the page without ads, never to an error page.
func (h *PageHandler) evaluate(c *fiber.Ctx) *dto.AdEvaluation {
	visitor := h.visitorSvc.Resolve(c)

	eval, err := h.adsSvc.Evaluate(visitor)
	if err != nil {
		log.Printf("Ad evaluation failed, serving without ads: %v", err)
		return nil
	}
	return eval
}

// Index serves the landing page with the news block and ad decision applied.
func (h *PageHandler) Index(c *fiber.Ctx) error {
	eval := h.evaluate(c)

	noticias, err := h.newsSvc.GetNoticias(5)
	if err != nil {
		log.Printf("Failed to load noticias for index: %v", err)
		noticias = nil
	}

	html, err := h.pagesSvc.RenderIndex(eval, noticias)
	if err != nil {
		return err
	}

	return c.Type("html").SendString(html)
}

// Page serves any other legacy .html page.
func (h *PageHandler) Page(c *fiber.Ctx) error {
	page := c.Params("page")
	if !strings.HasSuffix(page, ".html") {
		return shared.NewNotFoundError(fmt.Errorf("not a legacy page: %s", page), "Not Found")
	}

	eval := h.evaluate(c)

	html, err := h.pagesSvc.RenderPage(page, eval)
	if err != nil {
		return err
	}

	return c.Type("html").SendString(html)
}

// AdsTxt serves the AdSense seller declaration when a publisher id is
// configured, 404 otherwise so crawlers do not cache an empty file.
func (h *PageHandler) AdsTxt(c *fiber.Ctx) error {
	pub := h.pagesSvc.PublisherID()
	if pub == "" {
		return shared.NewNotFoundError(fmt.Errorf("no publisher configured"), "Not Found")
	}

	// ads.txt wants the bare publisher id without the ca- prefix.
	account := strings.TrimPrefix(pub, "ca-")

	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return c.SendString(fmt.Sprintf("google.com, %s, DIRECT, f08c47fec0942fa0\n", account))
}
