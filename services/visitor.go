package services

import (
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/iecs-iedis/casita_api/model"
	"github.com/iecs-iedis/casita_api/shared"
)

// VisitorService reconstructs the per-browser segmentation state from the
// four ad cookies on every request. The cookie jar is the durable store
// here; the server only normalizes what the client presents. login.php
// writes the same cookies from the PHP side, so names, value domains and
// attributes must stay wire-compatible.
type VisitorService struct {
	context.DefaultService

	apexDomain string
	secure     bool
	debug      bool
}

const VISITOR_SVC = "visitor_svc"

const cookieMaxAge = 60 * 60 * 24 * 365 // one year

func (svc VisitorService) Id() string {
	return VISITOR_SVC
}

func (svc *VisitorService) Configure(ctx *context.Context) error {
	svc.apexDomain = os.Getenv("COOKIE_APEX_DOMAIN")
	if svc.apexDomain == "" {
		svc.apexDomain = "casitaiedis.edu.mx"
	}
	svc.secure = os.Getenv("APP_ENV") == "production"
	svc.debug = shared.ParseLooseBool(os.Getenv("DEBUG_LEGACY")) == "true"

	return svc.DefaultService.Configure(ctx)
}

func (svc *VisitorService) Start() error {
	return nil
}

// cookieDomain pins cookies to the shared apex domain when the request is
// served from it (so PHP and this service see one segmentation view), and
// stays host-only for localhost and previews.
func (svc *VisitorService) cookieDomain(host string) string {
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	if host == svc.apexDomain || strings.HasSuffix(host, "."+svc.apexDomain) {
		return "." + svc.apexDomain
	}
	return ""
}

func (svc *VisitorService) setCookie(c *fiber.Ctx, name, value string) {
	c.Cookie(&fiber.Cookie{
		Name:   name,
		Value:  value,
		Path:   "/",
		Domain: svc.cookieDomain(c.Hostname()),
		MaxAge: cookieMaxAge,
		Secure: svc.secure,
		// Not HTTP-only: login.php and legacy front-end scripts read and
		// write these cookies directly.
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (svc *VisitorService) writeAll(c *fiber.Ctx, visitor model.VisitorContext) {
	suppressed := "false"
	if visitor.AdsSuppressed {
		suppressed = "true"
	}

	svc.setCookie(c, shared.CookieVisitorID, visitor.VisitorID)
	svc.setCookie(c, shared.CookieUserSegment, visitor.UserSegment)
	svc.setCookie(c, shared.CookieAdsSuppressed, suppressed)
	svc.setCookie(c, shared.CookieLastLoginType, visitor.LastLoginType)
}

// Resolve reads and normalizes the visitor cookies, creating them when
// absent. A request without a valid segment cookie counts as a first
// visit: all four values are rewritten together as the organic bundle,
// never as a partially-defaulted mix. Cookies are only written back when
// something was missing or defaulted.
func (svc *VisitorService) Resolve(c *fiber.Ctx) model.VisitorContext {
	visitorID := c.Cookies(shared.CookieVisitorID)
	userSegment := shared.ParseUserSegment(c.Cookies(shared.CookieUserSegment))
	adsSuppressed := shared.ParseLooseBool(c.Cookies(shared.CookieAdsSuppressed)) == "true"
	lastLoginType := shared.ParseLastLoginType(c.Cookies(shared.CookieLastLoginType))

	changed := false

	if visitorID == "" {
		visitorID = uuid.New().String()
		changed = true
	}

	if userSegment == "" {
		// No prior segmentation: treat as organic, never logged in.
		userSegment = shared.SegmentOrganic
		adsSuppressed = false
		lastLoginType = shared.LoginTypeNone
		changed = true
	}

	visitor := model.VisitorContext{
		VisitorID:     visitorID,
		UserSegment:   userSegment,
		AdsSuppressed: adsSuppressed,
		LastLoginType: lastLoginType,
	}

	if changed {
		svc.writeAll(c, visitor)
	}

	if svc.debug {
		log.WithFields(log.Fields{
			"visitor_id":      visitor.VisitorID,
			"user_segment":    visitor.UserSegment,
			"ads_suppressed":  visitor.AdsSuppressed,
			"last_login_type": visitor.LastLoginType,
		}).Info("Resolved visitor context")
	}

	return visitor
}

// ApplyInternalLogin rewrites the cookie bundle after a successful Google
// staff login: internal segment, ads suppressed for good, provenance
// google. The visitor id is preserved (or created) so the same UUID is
// shared across subdomains.
func (svc *VisitorService) ApplyInternalLogin(c *fiber.Ctx) model.VisitorContext {
	visitorID := c.Cookies(shared.CookieVisitorID)
	if visitorID == "" {
		visitorID = uuid.New().String()
	}

	visitor := model.VisitorContext{
		VisitorID:     visitorID,
		UserSegment:   shared.SegmentInternal,
		AdsSuppressed: true,
		LastLoginType: shared.LoginTypeGoogle,
	}

	svc.writeAll(c, visitor)
	return visitor
}

// ApplyPortalLogin rewrites the cookie bundle after a login.php success.
// A username of exactly 6 characters maps to premium (ads suppressed),
// anything else to daycare (ads allowed).
//
// The 6-character rule mirrors a legacy account-naming convention on the
// PHP side, not a deliberate business rule. Keep it byte-for-byte until
// the product owner signs off on a real account-type flag.
func (svc *VisitorService) ApplyPortalLogin(c *fiber.Ctx, username string) model.VisitorContext {
	visitorID := c.Cookies(shared.CookieVisitorID)
	if visitorID == "" {
		visitorID = uuid.New().String()
	}

	isPremium := len(username) == 6

	userSegment := shared.SegmentDaycare
	if isPremium {
		userSegment = shared.SegmentPremium
	}

	visitor := model.VisitorContext{
		VisitorID:     visitorID,
		UserSegment:   userSegment,
		AdsSuppressed: isPremium,
		LastLoginType: shared.LoginTypePHP,
	}

	svc.writeAll(c, visitor)
	return visitor
}
