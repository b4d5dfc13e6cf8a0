package dto

import "github.com/iecs-iedis/casita_api/model"

// UpdateAdConfigRequest is a partial patch of the control-plane row. Nil
// fields are left unchanged in the store.
type UpdateAdConfigRequest struct {
	GlobalAdsEnabled  *bool    `json:"global_ads_enabled"`
	AdsForInternal    *bool    `json:"ads_for_internal"`
	AdsForPremium     *bool    `json:"ads_for_premium"`
	AdsForDaycare     *bool    `json:"ads_for_daycare"`
	AdsForOrganic     *bool    `json:"ads_for_organic"`
	RolloutPercentage *float64 `json:"rollout_percentage"`
}

// IsEmpty reports whether the patch carries no recognized fields, in which
// case no statement is issued at all.
func (r UpdateAdConfigRequest) IsEmpty() bool {
	return r.GlobalAdsEnabled == nil &&
		r.AdsForInternal == nil &&
		r.AdsForPremium == nil &&
		r.AdsForDaycare == nil &&
		r.AdsForOrganic == nil &&
		r.RolloutPercentage == nil
}

type PortalLoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
}

func (r PortalLoginRequest) Validate() error {
	return GetValidator().Struct(r)
}

type AdSegmentStats struct {
	UserSegment string `json:"user_segment"`
	Visits      int64  `json:"visits"`
	Eligible    int64  `json:"eligible"`
	Rendered    int64  `json:"rendered"`
}

type AdDashboardStats struct {
	TotalVisits   int64            `json:"total_visits"`
	TotalEligible int64            `json:"total_eligible"`
	TotalRendered int64            `json:"total_rendered"`
	BySegment     []AdSegmentStats `json:"by_segment"`
}

// AdEvaluation bundles everything a page render needs to decide whether to
// inject ad markup.
type AdEvaluation struct {
	Visitor  model.VisitorContext   `json:"visitor"`
	Config   *model.AdConfig        `json:"config"`
	Decision model.AdDecisionResult `json:"decision"`
}
