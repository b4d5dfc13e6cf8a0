package main

import (
	"github.com/iecs-iedis/casita_api/middleware"
	"github.com/iecs-iedis/casita_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading .env file")
	}

	ctx, err := context.NewCtx(
		&services.PostgresService{},
		&services.RedisService{},
		&services.MonitoringService{},

		&services.VisitorService{},
		&services.AdService{},
		&services.NewsService{},
		&services.PagesService{},
		&middleware.DashboardGuard{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
