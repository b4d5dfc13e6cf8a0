package model

import "time"

// AdConfig is the single control-plane row (id=1) governing ad behavior.
// Booleans are stored as 0/1 to stay column-compatible with the legacy
// MySQL schema the PHP side was written against.
type AdConfig struct {
	ID                int       `json:"id" gorm:"primaryKey"`
	GlobalAdsEnabled  int       `json:"global_ads_enabled" gorm:"not null;default:0"`
	AdsForInternal    int       `json:"ads_for_internal" gorm:"not null;default:0"`
	AdsForPremium     int       `json:"ads_for_premium" gorm:"not null;default:0"`
	AdsForDaycare     int       `json:"ads_for_daycare" gorm:"not null;default:0"`
	AdsForOrganic     int       `json:"ads_for_organic" gorm:"not null;default:0"`
	RolloutPercentage int       `json:"rollout_percentage" gorm:"not null;default:0"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"not null"`
}

func (AdConfig) TableName() string {
	return "ad_config"
}

// AdVisit is one append-only audit row per decision evaluation. Never
// updated or deleted; decisions are always recomputed, never read back
// from this log.
type AdVisit struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	VisitorID   string    `json:"visitor_id" gorm:"not null;index"`
	UserSegment string    `json:"user_segment" gorm:"not null;index"`
	AdsEligible int       `json:"ads_eligible" gorm:"not null"`
	AdsRendered int       `json:"ads_rendered" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null"`
}

func (AdVisit) TableName() string {
	return "ad_visits"
}

// VisitorContext is the normalized view of the four ad cookies for a single
// request. All fields are always populated; missing or malformed cookies
// are defaulted before this struct is built.
type VisitorContext struct {
	VisitorID     string `json:"visitor_id"`
	UserSegment   string `json:"user_segment"`
	AdsSuppressed bool   `json:"ads_suppressed"`
	LastLoginType string `json:"last_login_type"`
}

// AdDecisionResult is the per-request verdict. AdsEligible ignores the
// global and env kill switches so rollout correctness can be observed
// during a soak phase; AdsRendered applies them.
type AdDecisionResult struct {
	AdsEligible bool `json:"ads_eligible"`
	AdsRendered bool `json:"ads_rendered"`
}
