package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iecs-iedis/casita_api/dto"
	"github.com/iecs-iedis/casita_api/model"
)

// AdVisitRepository handles the append-only ad_visits audit log
type AdVisitRepository struct {
	BaseRepository
}

func NewAdVisitRepository(db *gorm.DB) *AdVisitRepository {
	return &AdVisitRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Insert appends one audit row. Rows are never updated or deleted here.
func (r *AdVisitRepository) Insert(visitorID, userSegment string, adsEligible, adsRendered bool) error {
	id, _ := uuid.NewV7()
	visit := &model.AdVisit{
		ID:          id.String(),
		VisitorID:   visitorID,
		UserSegment: userSegment,
		AdsEligible: boolToInt(adsEligible),
		AdsRendered: boolToInt(adsRendered),
		CreatedAt:   time.Now(),
	}
	return r.db.Create(visit).Error
}

// AggregateStats computes full-log totals plus a per-segment breakdown,
// ordered by segment name.
func (r *AdVisitRepository) AggregateStats() (*dto.AdDashboardStats, error) {
	var totals struct {
		TotalVisits   int64
		TotalEligible int64
		TotalRendered int64
	}

	err := r.db.Model(&model.AdVisit{}).
		Select("COUNT(*) AS total_visits, COALESCE(SUM(ads_eligible), 0) AS total_eligible, COALESCE(SUM(ads_rendered), 0) AS total_rendered").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var bySegment []dto.AdSegmentStats
	err = r.db.Model(&model.AdVisit{}).
		Select("user_segment, COUNT(*) AS visits, COALESCE(SUM(ads_eligible), 0) AS eligible, COALESCE(SUM(ads_rendered), 0) AS rendered").
		Group("user_segment").
		Order("user_segment").
		Scan(&bySegment).Error
	if err != nil {
		return nil, err
	}

	return &dto.AdDashboardStats{
		TotalVisits:   totals.TotalVisits,
		TotalEligible: totals.TotalEligible,
		TotalRendered: totals.TotalRendered,
		BySegment:     bySegment,
	}, nil
}
