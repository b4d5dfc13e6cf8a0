package middleware

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/iecs-iedis/casita_api/shared"
)

// DashboardGuard protects the ad control dashboard. Three ways in, tried
// in order: HTTP basic auth against configured credentials, an internal
// segment cookie, or a source-IP allowlist. Anything else is a 403.
type DashboardGuard struct {
	context.DefaultService

	user        string
	pass        string
	ipAllowlist []string
}

const DASHBOARD_GUARD_SVC = "dashboard_guard_svc"

func (svc DashboardGuard) Id() string {
	return DASHBOARD_GUARD_SVC
}

func envOr(key, fallbackKey string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return os.Getenv(fallbackKey)
}

func (svc *DashboardGuard) Configure(ctx *context.Context) error {
	svc.user = envOr("ADS_DASHBOARD_BASIC_USER", "NUXT_ADS_DASHBOARD_BASIC_USER")
	svc.pass = envOr("ADS_DASHBOARD_BASIC_PASS", "NUXT_ADS_DASHBOARD_BASIC_PASS")

	svc.ipAllowlist = nil
	for _, ip := range strings.Split(os.Getenv("ADS_DASHBOARD_IP_ALLOWLIST"), ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			svc.ipAllowlist = append(svc.ipAllowlist, ip)
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *DashboardGuard) Start() error {
	return nil
}

// basicAuthConfigured reports whether credentials are set at all. With no
// credentials the basic-auth path is skipped entirely rather than
// matching empty strings.
func (svc *DashboardGuard) basicAuthConfigured() bool {
	return svc.user != "" && svc.pass != ""
}

func (svc *DashboardGuard) checkBasicAuth(header string) bool {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return false
	}

	user, pass, ok := strings.Cut(string(raw), ":")
	if !ok {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(svc.user)) == 1
	if !userOK {
		return false
	}

	if strings.HasPrefix(svc.pass, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(svc.pass), []byte(pass)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(pass), []byte(svc.pass)) == 1
}

// clientIP prefers the first X-Forwarded-For entry (the service sits
// behind a reverse proxy in production), falling back to the socket peer.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	return c.IP()
}

func (svc *DashboardGuard) ipAllowed(ip string) bool {
	parsed := net.ParseIP(ip)
	for _, allowed := range svc.ipAllowlist {
		if allowed == ip {
			return true
		}
		if parsed != nil {
			if allowedIP := net.ParseIP(allowed); allowedIP != nil && allowedIP.Equal(parsed) {
				return true
			}
		}
	}
	return false
}

// Handler gates dashboard routes. When basic auth is configured a bad or
// missing Authorization header gets the browser challenge; the cookie and
// IP fallbacks only apply when no credentials are configured.
func (svc *DashboardGuard) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if svc.basicAuthConfigured() {
			if svc.checkBasicAuth(c.Get(fiber.HeaderAuthorization)) {
				return c.Next()
			}
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="ads-dashboard"`)
			return shared.NewUnauthorizedError(fmt.Errorf("bad dashboard credentials"), "Unauthorized")
		}

		if c.Cookies(shared.CookieUserSegment) == shared.SegmentInternal {
			return c.Next()
		}

		if svc.ipAllowed(clientIP(c)) {
			return c.Next()
		}

		return shared.NewForbiddenError(fmt.Errorf("dashboard access denied for %s", clientIP(c)), "Forbidden")
	}
}
