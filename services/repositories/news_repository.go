package repositories

import (
	"gorm.io/gorm"

	"github.com/iecs-iedis/casita_api/model"
)

// NewsRepository handles read access to the legacy noticias table
type NewsRepository struct {
	BaseRepository
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// List returns noticias ordered by fecha descending. A non-positive limit
// means no limit; positive limits are clamped to [1,50].
func (r *NewsRepository) List(limit int) ([]model.Noticia, error) {
	q := r.db.Order("fecha DESC")
	if limit > 0 {
		if limit > 50 {
			limit = 50
		}
		q = q.Limit(limit)
	}

	var rows []model.Noticia
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *NewsRepository) GetByID(id int) (*model.Noticia, error) {
	var row model.Noticia
	if err := r.db.Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
