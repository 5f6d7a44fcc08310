package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "squad_ladder"

type Metrics struct {
	RiotRequests      *prometheus.CounterVec
	MatchCacheHits    prometheus.Counter
	MatchCacheMisses  prometheus.Counter
	MatchesSkipped    *prometheus.CounterVec
	SyncRuns          *prometheus.CounterVec
	SyncDuration      prometheus.Histogram
	SyncPlayerErrors  *prometheus.CounterVec
	RankUpdates       *prometheus.CounterVec
	PlayersRegistered prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RiotRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "riot_requests_total",
			Help:      "Riot API requests by endpoint and status class.",
		}, []string{"endpoint", "status"}),
		MatchCacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_cache_hits_total",
			Help:      "Match details served from the per-player sync cache.",
		}),
		MatchCacheMisses: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_cache_misses_total",
			Help:      "Match details fetched from the Riot API.",
		}),
		MatchesSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_skipped_total",
			Help:      "Matches left out of champion aggregation.",
		}, []string{"reason"}),
		SyncRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Synchronization runs by outcome.",
		}, []string{"outcome"}),
		SyncDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Wall time of a full synchronization run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),
		SyncPlayerErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_player_errors_total",
			Help:      "Players that failed during synchronization, by kind.",
		}, []string{"kind"}),
		RankUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rank_updates_total",
			Help:      "Rank rows written by synchronization.",
		}, []string{"queue", "op"}),
		PlayersRegistered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "players_registered_total",
			Help:      "Players registered through the API.",
		}),
	}
}

// NewRegistry is provided to fx so that /metrics only exposes this service.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// NewNoop returns metrics bound to a throwaway registry, for tests.
func NewNoop() *Metrics {
	return New(prometheus.NewRegistry())
}
