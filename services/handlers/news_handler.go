package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/iecs-iedis/casita_api/shared"
)

type NewsHandler struct {
	newsSvc NewsServiceInterface
}

func NewNewsHandler(newsSvc NewsServiceInterface) *NewsHandler {
	return &NewsHandler{
		newsSvc: newsSvc,
	}
}

// @Summary List Noticias
// @Description Get recent school news, newest first
// @Tags noticias
// @Accept json
// @Produce json
// @Param limit query int false "Maximum rows to return (1-50)"
// @Success 200 {object} shared.Response{data=[]dto.NoticiaResponse}
// @Router /api/v1/noticias [get]
func (h *NewsHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	noticias, err := h.newsSvc.GetNoticias(limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", noticias)
}

// @Summary Get Noticia
// @Description Get a single news item by id
// @Tags noticias
// @Accept json
// @Produce json
// @Param id path int true "Noticia ID"
// @Success 200 {object} shared.Response{data=dto.NoticiaResponse}
// @Router /api/v1/noticias/{id} [get]
func (h *NewsHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid noticia id")
	}

	noticia, err := h.newsSvc.GetNoticia(id)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", noticia)
}
