package shared

import "strings"

const (
	UserID = "user_id"

	// Cookie names shared with login.php and the Google /login flow. These
	// are a cross-system wire contract; renaming any of them desynchronizes
	// segmentation between PHP and this service.
	CookieVisitorID     = "visitor_id"
	CookieUserSegment   = "user_segment"
	CookieAdsSuppressed = "ads_suppressed"
	CookieLastLoginType = "last_login_type"

	SegmentInternal = "internal"
	SegmentPremium  = "premium"
	SegmentDaycare  = "daycare"
	SegmentOrganic  = "organic"

	LoginTypeGoogle  = "google"
	LoginTypePHP     = "php"
	LoginTypeNone    = "none"
	LoginTypeUnknown = "unknown"

	PresetDaycareOnly    = "daycare-only"
	PresetDaycareOrganic = "daycare-organic"
	PresetAllSegments    = "all-segments"
)

// ParseLooseBool normalizes a raw cookie or env string into "true", "false"
// or "unknown". Accepts 1/true/yes/on and 0/false/no/off, case-insensitive.
func ParseLooseBool(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return "unknown"
	}
}

// ParseUserSegment returns the segment if raw is one of the four known
// values, otherwise the empty string.
func ParseUserSegment(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case SegmentInternal, SegmentPremium, SegmentDaycare, SegmentOrganic:
		return strings.ToLower(strings.TrimSpace(raw))
	default:
		return ""
	}
}

// ParseLastLoginType normalizes the provenance cookie. Unrecognized values
// collapse to "unknown" rather than being rejected.
func ParseLastLoginType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case LoginTypeGoogle, LoginTypePHP, LoginTypeNone:
		return strings.ToLower(strings.TrimSpace(raw))
	default:
		return LoginTypeUnknown
	}
}
