package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iecs-iedis/casita_api/model"
	"github.com/iecs-iedis/casita_api/shared"
)

func testVisitorService() *VisitorService {
	return &VisitorService{apexDomain: "casitaiedis.edu.mx"}
}

// resolveApp wires Resolve into a bare fiber app and returns the resolved
// context plus the response for cookie inspection.
func resolveApp(t *testing.T, svc *VisitorService, req *http.Request) (model.VisitorContext, *http.Response) {
	t.Helper()

	var visitor model.VisitorContext
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		visitor = svc.Resolve(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(req)
	require.NoError(t, err)
	return visitor, resp
}

func setCookies(req *http.Request, cookies map[string]string) {
	for name, value := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

func TestResolveFirstVisitWritesFullBundle(t *testing.T) {
	svc := testVisitorService()

	visitor, resp := resolveApp(t, svc, httptest.NewRequest("GET", "/", nil))
	defer resp.Body.Close()

	assert.NotEmpty(t, visitor.VisitorID)
	assert.Equal(t, shared.SegmentOrganic, visitor.UserSegment)
	assert.False(t, visitor.AdsSuppressed)
	assert.Equal(t, shared.LoginTypeNone, visitor.LastLoginType)

	cookies := resp.Header.Values(fiber.HeaderSetCookie)
	require.Len(t, cookies, 4, "first visit rewrites all four cookies together")

	joined := strings.Join(cookies, "\n")
	assert.Contains(t, joined, shared.CookieVisitorID+"="+visitor.VisitorID)
	assert.Contains(t, joined, shared.CookieUserSegment+"=organic")
	assert.Contains(t, joined, shared.CookieAdsSuppressed+"=false")
	assert.Contains(t, joined, shared.CookieLastLoginType+"=none")
}

func TestResolveValidCookiesNoRewrite(t *testing.T) {
	svc := testVisitorService()

	req := httptest.NewRequest("GET", "/", nil)
	setCookies(req, map[string]string{
		shared.CookieVisitorID:     "11111111-2222-3333-4444-555555555555",
		shared.CookieUserSegment:   "daycare",
		shared.CookieAdsSuppressed: "false",
		shared.CookieLastLoginType: "php",
	})

	visitor, resp := resolveApp(t, svc, req)
	defer resp.Body.Close()

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", visitor.VisitorID)
	assert.Equal(t, shared.SegmentDaycare, visitor.UserSegment)
	assert.False(t, visitor.AdsSuppressed)
	assert.Equal(t, shared.LoginTypePHP, visitor.LastLoginType)

	assert.Empty(t, resp.Header.Values(fiber.HeaderSetCookie), "nothing changed, nothing written")
}

func TestResolveGarbageSegmentForcesOrganicBundle(t *testing.T) {
	svc := testVisitorService()

	req := httptest.NewRequest("GET", "/", nil)
	setCookies(req, map[string]string{
		shared.CookieVisitorID:     "11111111-2222-3333-4444-555555555555",
		shared.CookieUserSegment:   "vip",
		shared.CookieAdsSuppressed: "true",
		shared.CookieLastLoginType: "php",
	})

	visitor, resp := resolveApp(t, svc, req)
	defer resp.Body.Close()

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", visitor.VisitorID, "id survives the reset")
	assert.Equal(t, shared.SegmentOrganic, visitor.UserSegment)
	assert.False(t, visitor.AdsSuppressed, "suppression does not survive an invalid segment")
	assert.Equal(t, shared.LoginTypeNone, visitor.LastLoginType)

	assert.Len(t, resp.Header.Values(fiber.HeaderSetCookie), 4)
}

func TestResolveMissingIDKeepsValidSegment(t *testing.T) {
	svc := testVisitorService()

	req := httptest.NewRequest("GET", "/", nil)
	setCookies(req, map[string]string{
		shared.CookieUserSegment:   "premium",
		shared.CookieAdsSuppressed: "true",
		shared.CookieLastLoginType: "php",
	})

	visitor, resp := resolveApp(t, svc, req)
	defer resp.Body.Close()

	assert.NotEmpty(t, visitor.VisitorID)
	assert.Equal(t, shared.SegmentPremium, visitor.UserSegment)
	assert.True(t, visitor.AdsSuppressed)
	assert.Len(t, resp.Header.Values(fiber.HeaderSetCookie), 4)
}

func TestCookieAttributes(t *testing.T) {
	svc := testVisitorService()

	_, resp := resolveApp(t, svc, httptest.NewRequest("GET", "/", nil))
	defer resp.Body.Close()

	for _, raw := range resp.Header.Values(fiber.HeaderSetCookie) {
		assert.Contains(t, raw, "path=/")
		assert.Contains(t, raw, "max-age=31536000")
		assert.Contains(t, raw, "SameSite=Lax")
		assert.NotContains(t, raw, "HttpOnly", "legacy scripts read these cookies")
		assert.NotContains(t, raw, "secure", "secure only in production")
	}
}

func TestCookieSecureInProduction(t *testing.T) {
	svc := &VisitorService{apexDomain: "casitaiedis.edu.mx", secure: true}

	_, resp := resolveApp(t, svc, httptest.NewRequest("GET", "/", nil))
	defer resp.Body.Close()

	for _, raw := range resp.Header.Values(fiber.HeaderSetCookie) {
		assert.Contains(t, raw, "secure")
	}
}

func TestCookieDomain(t *testing.T) {
	svc := testVisitorService()

	cases := []struct {
		host string
		want string
	}{
		{"casitaiedis.edu.mx", ".casitaiedis.edu.mx"},
		{"www.casitaiedis.edu.mx", ".casitaiedis.edu.mx"},
		{"WWW.CASITAIEDIS.EDU.MX", ".casitaiedis.edu.mx"},
		{"casitaiedis.edu.mx:8000", ".casitaiedis.edu.mx"},
		{"localhost", ""},
		{"localhost:3000", ""},
		{"evilcasitaiedis.edu.mx", ""},
		{"staging.example.com", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, svc.cookieDomain(tc.host), "host %q", tc.host)
	}
}

func TestApplyInternalLogin(t *testing.T) {
	svc := testVisitorService()

	var visitor model.VisitorContext
	app := fiber.New()
	app.Post("/login", func(c *fiber.Ctx) error {
		visitor = svc.ApplyInternalLogin(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/login", nil)
	setCookies(req, map[string]string{shared.CookieVisitorID: "keep-me"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "keep-me", visitor.VisitorID)
	assert.Equal(t, shared.SegmentInternal, visitor.UserSegment)
	assert.True(t, visitor.AdsSuppressed)
	assert.Equal(t, shared.LoginTypeGoogle, visitor.LastLoginType)
	assert.Len(t, resp.Header.Values(fiber.HeaderSetCookie), 4)
}

func TestApplyPortalLoginUsernameLength(t *testing.T) {
	svc := testVisitorService()

	cases := []struct {
		username       string
		wantSegment    string
		wantSuppressed bool
	}{
		{"abc123", shared.SegmentPremium, true},
		{"abcde", shared.SegmentDaycare, false},
		{"abcdefg", shared.SegmentDaycare, false},
		{"x", shared.SegmentDaycare, false},
	}

	for _, tc := range cases {
		t.Run(tc.username, func(t *testing.T) {
			var visitor model.VisitorContext
			app := fiber.New()
			app.Post("/login", func(c *fiber.Ctx) error {
				visitor = svc.ApplyPortalLogin(c, tc.username)
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.wantSegment, visitor.UserSegment)
			assert.Equal(t, tc.wantSuppressed, visitor.AdsSuppressed)
			assert.Equal(t, shared.LoginTypePHP, visitor.LastLoginType)
			assert.NotEmpty(t, visitor.VisitorID)
		})
	}
}
