package services

import (
	gocontext "context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/iecs-iedis/casita_api/dto"
	"github.com/iecs-iedis/casita_api/model"
	"github.com/iecs-iedis/casita_api/services/repositories"
	"github.com/iecs-iedis/casita_api/shared"
)

// AdService owns the ad decision engine and everything around it: config
// reads (cached), presets, per-request evaluation and the best-effort
// audit trail.
type AdService struct {
	context.DefaultService

	postgresSvc   *PostgresService
	redisSvc      *RedisService
	monitoringSvc *MonitoringService

	configRepo *repositories.AdConfigRepository
	visitRepo  *repositories.AdVisitRepository

	debug bool
}

const AD_SVC = "ad_svc"

const (
	adConfigCacheKey = "ad_config:v1"
	adConfigCacheTTL = 30 * time.Second
)

func (svc AdService) Id() string {
	return AD_SVC
}

func (svc *AdService) Configure(ctx *context.Context) error {
	svc.debug = shared.ParseLooseBool(os.Getenv("DEBUG_LEGACY")) == "true"
	return svc.DefaultService.Configure(ctx)
}

func (svc *AdService) Start() error {
	svc.postgresSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.configRepo = repositories.NewAdConfigRepository(svc.postgresSvc.Db())
	svc.visitRepo = repositories.NewAdVisitRepository(svc.postgresSvc.Db())
	return nil
}

// VisitorBucket maps a visitor id to a stable bucket in [0,100) for
// rollout gating: SHA-256 of the id, first 4 digest bytes read as a
// big-endian uint32, mod 100.
//
// Hash function and byte order are frozen. Changing either silently
// re-buckets every existing visitor.
func VisitorBucket(visitorID string) int {
	sum := sha256.Sum256([]byte(visitorID))
	return int(binary.BigEndian.Uint32(sum[:4]) % 100)
}

// EnvAdsHardDisabled reports whether the env kill switch forces ads off
// regardless of the stored configuration. Only an explicitly false-y
// value (0/false/no/off) trips it; unset or garbage does not.
func EnvAdsHardDisabled() bool {
	raw, ok := os.LookupEnv("ENABLE_INDEX_ADS")
	if !ok {
		raw = os.Getenv("NUXT_ENABLE_INDEX_ADS")
	}
	return shared.ParseLooseBool(raw) == "false"
}

// ComputeAdDecision is the decision engine. Pure and total: inputs are
// already normalized, so there is no error path.
//
// Order matters:
//  1. hard lock: internal, premium, or suppressed visitors never see ads
//  2. segment toggle: daycare/organic each need their config toggle
//  3. rollout gate: bucket(visitor) < rollout sets AdsEligible, on purpose
//     ignoring the global and env switches so would-be eligibility can be
//     measured during a soak period
//  4. global gate: AdsRendered additionally needs global_ads_enabled and
//     no env hard-disable
func ComputeAdDecision(visitor model.VisitorContext, config model.AdConfig, envHardDisabled bool) model.AdDecisionResult {
	hardLocked := visitor.UserSegment == shared.SegmentInternal ||
		visitor.UserSegment == shared.SegmentPremium ||
		visitor.AdsSuppressed

	if hardLocked {
		return model.AdDecisionResult{}
	}

	segmentAllowed := false
	switch visitor.UserSegment {
	case shared.SegmentDaycare:
		segmentAllowed = config.AdsForDaycare == 1
	case shared.SegmentOrganic:
		segmentAllowed = config.AdsForOrganic == 1
	}

	if !segmentAllowed {
		return model.AdDecisionResult{}
	}

	rollout := config.RolloutPercentage
	if rollout < 0 {
		rollout = 0
	}
	if rollout > 100 {
		rollout = 100
	}

	adsEligible := VisitorBucket(visitor.VisitorID) < rollout
	globalEnabled := config.GlobalAdsEnabled == 1 && !envHardDisabled

	return model.AdDecisionResult{
		AdsEligible: adsEligible,
		AdsRendered: adsEligible && globalEnabled,
	}
}

// GetConfig reads the control-plane row through the redis cache. Cache
// misses and cache errors both fall through to the store; the cache is
// never authoritative.
func (svc *AdService) GetConfig() (*model.AdConfig, error) {
	ctx := gocontext.Background()

	if svc.redisSvc != nil {
		var cached model.AdConfig
		if err := svc.redisSvc.GetJSON(ctx, adConfigCacheKey, &cached); err == nil && cached.ID != 0 {
			return &cached, nil
		}
	}

	cfg, err := svc.configRepo.Get()
	if err != nil {
		return nil, err
	}

	if svc.redisSvc != nil {
		if err := svc.redisSvc.Set(ctx, adConfigCacheKey, cfg, adConfigCacheTTL); err != nil && svc.debug {
			log.Printf("Failed to cache ad config: %v", err)
		}
	}

	return cfg, nil
}

// UpdateConfig patches the control-plane row and invalidates the cache.
// An empty patch is a no-op end to end.
func (svc *AdService) UpdateConfig(req dto.UpdateAdConfigRequest) error {
	if req.IsEmpty() {
		return nil
	}

	if err := svc.configRepo.Patch(req); err != nil {
		return shared.NewInternalError(err, "Failed to update ad configuration")
	}

	svc.invalidateConfigCache()
	return nil
}

func (svc *AdService) invalidateConfigCache() {
	if svc.redisSvc == nil {
		return
	}
	if err := svc.redisSvc.Delete(gocontext.Background(), adConfigCacheKey); err != nil && svc.debug {
		log.Printf("Failed to invalidate ad config cache: %v", err)
	}
}

func boolPtr(b bool) *bool {
	return &b
}

// ApplyPreset applies a named toggle combination as a single patch. All
// presets turn the global switch on; they differ only in which segments
// may become eligible. An unrecognized name falls back to the manual
// field-by-field patch from the same form submission.
func (svc *AdService) ApplyPreset(name string, fallback dto.UpdateAdConfigRequest) error {
	var req dto.UpdateAdConfigRequest

	switch name {
	case shared.PresetDaycareOnly:
		req = dto.UpdateAdConfigRequest{
			GlobalAdsEnabled: boolPtr(true),
			AdsForInternal:   boolPtr(false),
			AdsForPremium:    boolPtr(false),
			AdsForDaycare:    boolPtr(true),
			AdsForOrganic:    boolPtr(false),
		}
	case shared.PresetDaycareOrganic:
		req = dto.UpdateAdConfigRequest{
			GlobalAdsEnabled: boolPtr(true),
			AdsForInternal:   boolPtr(false),
			AdsForPremium:    boolPtr(false),
			AdsForDaycare:    boolPtr(true),
			AdsForOrganic:    boolPtr(true),
		}
	case shared.PresetAllSegments:
		req = dto.UpdateAdConfigRequest{
			GlobalAdsEnabled: boolPtr(true),
			AdsForInternal:   boolPtr(true),
			AdsForPremium:    boolPtr(true),
			AdsForDaycare:    boolPtr(true),
			AdsForOrganic:    boolPtr(true),
		}
	default:
		return svc.UpdateConfig(fallback)
	}

	return svc.UpdateConfig(req)
}

// Evaluate runs the decision engine for one request and appends the audit
// row. This is the only entry point page renders should use. The audit
// write is best-effort: a store failure there is logged and swallowed so
// the page response never depends on it.
func (svc *AdService) Evaluate(visitor model.VisitorContext) (*dto.AdEvaluation, error) {
	config, err := svc.GetConfig()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load ad configuration")
	}

	decision := ComputeAdDecision(visitor, *config, EnvAdsHardDisabled())

	if svc.debug {
		log.WithFields(log.Fields{
			"visitor_id":     visitor.VisitorID,
			"user_segment":   visitor.UserSegment,
			"ads_suppressed": visitor.AdsSuppressed,
			"ads_eligible":   decision.AdsEligible,
			"ads_rendered":   decision.AdsRendered,
		}).Info("Ad decision")
	}

	if svc.monitoringSvc != nil {
		svc.monitoringSvc.RecordAdDecision(visitor.UserSegment, decision.AdsEligible, decision.AdsRendered)
	}

	if err := svc.visitRepo.Insert(visitor.VisitorID, visitor.UserSegment, decision.AdsEligible, decision.AdsRendered); err != nil {
		log.Printf("Failed to insert ad_visits row: %v", err)
		if svc.monitoringSvc != nil {
			svc.monitoringSvc.RecordAuditFailure()
		}
	}

	return &dto.AdEvaluation{
		Visitor:  visitor,
		Config:   config,
		Decision: decision,
	}, nil
}

// DashboardStats aggregates the full audit log for the control dashboard.
func (svc *AdService) DashboardStats() (*dto.AdDashboardStats, error) {
	stats, err := svc.visitRepo.AggregateStats()
	if err != nil {
		return nil, shared.NewInternalError(err, fmt.Sprintf("Failed to aggregate ad stats: %v", err))
	}
	return stats, nil
}
