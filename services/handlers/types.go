package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/iecs-iedis/casita_api/dto"
	"github.com/iecs-iedis/casita_api/model"
)

type AdsServiceInterface interface {
	GetConfig() (*model.AdConfig, error)
	UpdateConfig(req dto.UpdateAdConfigRequest) error
	ApplyPreset(name string, fallback dto.UpdateAdConfigRequest) error
	Evaluate(visitor model.VisitorContext) (*dto.AdEvaluation, error)
	DashboardStats() (*dto.AdDashboardStats, error)
}

type VisitorServiceInterface interface {
	Resolve(c *fiber.Ctx) model.VisitorContext
	ApplyInternalLogin(c *fiber.Ctx) model.VisitorContext
	ApplyPortalLogin(c *fiber.Ctx, username string) model.VisitorContext
}

type NewsServiceInterface interface {
	GetNoticias(limit int) ([]dto.NoticiaResponse, error)
	GetNoticia(id int) (*dto.NoticiaResponse, error)
}

type PagesServiceInterface interface {
	PublisherID() string
	RenderPage(page string, eval *dto.AdEvaluation) (string, error)
	RenderIndex(eval *dto.AdEvaluation, noticias []dto.NoticiaResponse) (string, error)
}
