package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iecs-iedis/casita_api/model"
	"github.com/iecs-iedis/casita_api/shared"
)

type recordingVisitorService struct {
	fakeVisitorService

	portalUsername string
	internalCalled bool
}

func (f *recordingVisitorService) ApplyInternalLogin(c *fiber.Ctx) model.VisitorContext {
	f.internalCalled = true
	return f.visitor
}

func (f *recordingVisitorService) ApplyPortalLogin(c *fiber.Ctx, username string) model.VisitorContext {
	f.portalUsername = username
	return f.visitor
}

func loginApp(svc VisitorServiceInterface) *fiber.App {
	h := NewLoginHandler(svc)

	app := fiber.New()
	app.Post("/api/v1/login/internal/complete", h.InternalComplete)
	app.Post("/api/v1/login/portal/complete", h.PortalComplete)
	return app
}

func TestInternalComplete(t *testing.T) {
	svc := &recordingVisitorService{
		fakeVisitorService: fakeVisitorService{
			visitor: model.VisitorContext{
				VisitorID:     "v-1",
				UserSegment:   shared.SegmentInternal,
				AdsSuppressed: true,
				LastLoginType: shared.LoginTypeGoogle,
			},
		},
	}
	app := loginApp(svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/login/internal/complete", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, svc.internalCalled)
}

func TestPortalComplete(t *testing.T) {
	svc := &recordingVisitorService{}
	app := loginApp(svc)

	req := httptest.NewRequest("POST", "/api/v1/login/portal/complete", strings.NewReader(`{"username":"abc123"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc123", svc.portalUsername)
}

func TestPortalCompleteMissingUsername(t *testing.T) {
	svc := &recordingVisitorService{}
	app := loginApp(svc)

	req := httptest.NewRequest("POST", "/api/v1/login/portal/complete", strings.NewReader(`{}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, svc.portalUsername)
}
