package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/iecs-iedis/casita_api/dto"
	"github.com/iecs-iedis/casita_api/shared"
)

// LoginHandler finishes the two legacy login flows. The actual credential
// check happens elsewhere (Google OAuth for staff, login.php for the
// portal); these endpoints only stamp the resulting segmentation cookies.
type LoginHandler struct {
	visitorSvc VisitorServiceInterface
}

func NewLoginHandler(visitorSvc VisitorServiceInterface) *LoginHandler {
	return &LoginHandler{
		visitorSvc: visitorSvc,
	}
}

// @Summary Complete internal login
// @Description Mark this browser as an internal staff visitor after a Google login
// @Tags login
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=model.VisitorContext}
// @Router /api/v1/login/internal/complete [post]
func (h *LoginHandler) InternalComplete(c *fiber.Ctx) error {
	visitor := h.visitorSvc.ApplyInternalLogin(c)

	return shared.ResponseJSON(c, http.StatusOK, "Success", visitor)
}

// @Summary Complete portal login
// @Description Segment this browser after a successful login.php sign-in
// @Tags login
// @Accept json
// @Produce json
// @Param portalLoginRequest body dto.PortalLoginRequest true "Portal username"
// @Success 200 {object} shared.Response{data=model.VisitorContext}
// @Router /api/v1/login/portal/complete [post]
func (h *LoginHandler) PortalComplete(c *fiber.Ctx) error {
	var req dto.PortalLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return err
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	visitor := h.visitorSvc.ApplyPortalLogin(c, req.Username)

	return shared.ResponseJSON(c, http.StatusOK, "Success", visitor)
}
