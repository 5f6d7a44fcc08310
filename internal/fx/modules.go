package fx

import (
	"database/sql"

	"squad-ladder/internal/api"
	"squad-ladder/internal/config"
	"squad-ladder/internal/database"
	"squad-ladder/internal/db"
	"squad-ladder/internal/logger"
	"squad-ladder/internal/metrics"
	"squad-ladder/internal/repository"
	"squad-ladder/internal/server"
	"squad-ladder/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

// services depend on narrow interfaces; bind the concrete types to them
func ProvideRiotAPI(c *api.RiotClient) service.RiotAPI {
	return c
}

func ProvidePlayerStore(r *repository.PlayerRepository) service.PlayerStore {
	return r
}

func ProvideRankStore(r *repository.RankRepository) service.RankStore {
	return r
}

func ProvideChampionStore(r *repository.ChampionRepository) service.ChampionStore {
	return r
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// metrics
	fx.Provide(metrics.NewRegistry),
	fx.Provide(ProvideMetrics),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewRankRepository),
	fx.Provide(repository.NewChampionRepository),
	fx.Provide(ProvidePlayerStore, ProvideRankStore, ProvideChampionStore),
	// api client
	fx.Provide(api.NewRiotClient),
	fx.Provide(ProvideRiotAPI),
	// svc
	fx.Provide(service.NewChampionAggregator),
	fx.Provide(service.NewSyncService),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewRankingService),
	fx.Provide(service.NewScheduler),
	// server
	fx.Provide(server.NewLadderServer),
)
