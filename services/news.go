package services

import (
	"github.com/alphabatem/common/context"

	"github.com/iecs-iedis/casita_api/dto"
	"github.com/iecs-iedis/casita_api/model"
	"github.com/iecs-iedis/casita_api/services/repositories"
	"github.com/iecs-iedis/casita_api/shared"
)

type NewsService struct {
	context.DefaultService

	postgresSvc *PostgresService
	newsRepo    *repositories.NewsRepository
}

const NEWS_SVC = "news_svc"

func (svc NewsService) Id() string {
	return NEWS_SVC
}

func (svc *NewsService) Start() error {
	svc.postgresSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.newsRepo = repositories.NewNewsRepository(svc.postgresSvc.Db())
	return nil
}

func (svc *NewsService) GetNoticias(limit int) ([]dto.NoticiaResponse, error) {
	rows, err := svc.newsRepo.List(limit)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load noticias")
	}

	out := make([]dto.NoticiaResponse, 0, len(rows))
	for i := range rows {
		out = append(out, mapNoticia(&rows[i]))
	}
	return out, nil
}

func (svc *NewsService) GetNoticia(id int) (*dto.NoticiaResponse, error) {
	row, err := svc.newsRepo.GetByID(id)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Noticia not found")
	}

	resp := mapNoticia(row)
	return &resp, nil
}

func mapNoticia(row *model.Noticia) dto.NoticiaResponse {
	return dto.NoticiaResponse{
		ID:        row.ID,
		Fecha:     row.Fecha.Format("2006-01-02"),
		Titulo:    row.Titulo,
		Contenido: row.Contenido,
		Imagen:    row.Imagen,
	}
}
