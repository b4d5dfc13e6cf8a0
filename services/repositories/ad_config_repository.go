package repositories

import (
	"errors"
	"math"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iecs-iedis/casita_api/dto"
	"github.com/iecs-iedis/casita_api/model"
)

// AdConfigRowID is the fixed key of the singleton control-plane row.
const AdConfigRowID = 1

// AdConfigRepository handles the singleton ad_config row
type AdConfigRepository struct {
	BaseRepository
}

func NewAdConfigRepository(db *gorm.DB) *AdConfigRepository {
	return &AdConfigRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Get loads the control-plane row, seeding it with defaults when absent.
// Callers never see "not found": after the first call the row exists for
// the lifetime of the system. The insert is idempotent, so a race between
// concurrent cold starts produces at most a harmless no-op.
func (r *AdConfigRepository) Get() (*model.AdConfig, error) {
	var cfg model.AdConfig
	err := r.db.Where("id = ?", AdConfigRowID).First(&cfg).Error
	if err == nil {
		return &cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	seed := model.AdConfig{ID: AdConfigRowID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where("id = ?", AdConfigRowID).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Patch updates only the fields present in the request. Booleans map to
// 0/1 columns and rollout_percentage is floored and clamped to [0,100].
// An empty patch issues no statement.
func (r *AdConfigRepository) Patch(req dto.UpdateAdConfigRequest) error {
	updates := map[string]interface{}{}

	if req.GlobalAdsEnabled != nil {
		updates["global_ads_enabled"] = boolToInt(*req.GlobalAdsEnabled)
	}
	if req.AdsForInternal != nil {
		updates["ads_for_internal"] = boolToInt(*req.AdsForInternal)
	}
	if req.AdsForPremium != nil {
		updates["ads_for_premium"] = boolToInt(*req.AdsForPremium)
	}
	if req.AdsForDaycare != nil {
		updates["ads_for_daycare"] = boolToInt(*req.AdsForDaycare)
	}
	if req.AdsForOrganic != nil {
		updates["ads_for_organic"] = boolToInt(*req.AdsForOrganic)
	}
	if req.RolloutPercentage != nil && !math.IsNaN(*req.RolloutPercentage) && !math.IsInf(*req.RolloutPercentage, 0) {
		rollout := int(math.Floor(*req.RolloutPercentage))
		if rollout < 0 {
			rollout = 0
		}
		if rollout > 100 {
			rollout = 100
		}
		updates["rollout_percentage"] = rollout
	}

	if len(updates) == 0 {
		return nil
	}

	return r.db.Model(&model.AdConfig{}).Where("id = ?", AdConfigRowID).Updates(updates).Error
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
