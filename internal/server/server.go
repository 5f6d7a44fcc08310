package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"squad-ladder/internal/api"
	"squad-ladder/internal/domain"
	"squad-ladder/internal/middleware"
	"squad-ladder/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type PlayerRegistry interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.Player, error)
	List(ctx context.Context) ([]domain.Player, error)
}

type RankingBuilder interface {
	BuildRanking(ctx context.Context, queue domain.QueueType) ([]service.RankingRow, error)
}

type Synchronizer interface {
	SynchronizeAll(ctx context.Context) (*service.SyncSummary, error)
	Status() service.SyncStatus
}

type RateLimitReporter interface {
	RateLimitInfo() api.RateLimitInfo
}

type LadderServer struct {
	players  PlayerRegistry
	rankings RankingBuilder
	sync     Synchronizer
	riot     RateLimitReporter
	gatherer prometheus.Gatherer
	logger   zerolog.Logger
}

func NewLadderServer(
	players *service.PlayerService,
	rankings *service.RankingService,
	sync *service.SyncService,
	riot *api.RiotClient,
	registry *prometheus.Registry,
	logger zerolog.Logger,
) *LadderServer {
	return &LadderServer{
		players:  players,
		rankings: rankings,
		sync:     sync,
		riot:     riot,
		gatherer: registry,
		logger:   logger,
	}
}

func (s *LadderServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID(s.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/players", s.listPlayers)
		r.Post("/players", s.registerPlayer)
		r.Get("/ranking", s.ranking)

		r.Post("/sync", s.synchronize)
		// legacy path kept for existing clients
		r.Post("/update-ranks", s.synchronize)
		r.Get("/sync/status", s.syncStatus)

		r.Get("/rate-limit", s.rateLimit)
	})

	return handlers.CompressHandler(r)
}

func (s *LadderServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *LadderServer) registerPlayer(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	player, err := s.players.Register(r.Context(), in)
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, r, http.StatusBadRequest, "nickname and tag are required", err)
		return
	case errors.Is(err, domain.ErrConflict):
		writeError(w, r, http.StatusConflict, "player already registered", err)
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "failed to register player", err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "player registered",
		"player":  player,
	})
}

func (s *LadderServer) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.players.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to list players", err)
		return
	}
	if players == nil {
		players = []domain.Player{}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"total":   len(players),
		"data":    players,
	})
}

func (s *LadderServer) ranking(w http.ResponseWriter, r *http.Request) {
	queue := parseQueue(r.URL.Query().Get("queue"))

	rows, err := s.rankings.BuildRanking(r.Context(), queue)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to build ranking", err)
		return
	}
	if rows == nil {
		rows = []service.RankingRow{}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"queue":   queue,
		"total":   len(rows),
		"data":    rows,
	})
}

func (s *LadderServer) synchronize(w http.ResponseWriter, r *http.Request) {
	summary, err := s.sync.SynchronizeAll(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			// client went away, the run carries on
			return
		}
		writeError(w, r, http.StatusInternalServerError, "failed to fetch players", err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *LadderServer) syncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.sync.Status())
}

func (s *LadderServer) rateLimit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.riot.RateLimitInfo())
}

// parseQueue accepts the short names used by the frontend as well as Riot
// queue types. Anything else is passed through and yields an empty ranking.
func parseQueue(raw string) domain.QueueType {
	q := strings.TrimSpace(raw)
	switch strings.ToLower(q) {
	case "", "solo", "soloq":
		return domain.QueueSolo
	case "flex":
		return domain.QueueFlex
	}
	for _, tracked := range domain.TrackedQueues {
		if strings.EqualFold(q, string(tracked)) {
			return tracked
		}
	}
	return domain.QueueType(q)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	log := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg(msg)
	} else {
		log.Debug().Err(err).Msg(msg)
	}

	writeJSON(w, r, status, map[string]any{
		"success": false,
		"error":   msg,
		"details": err.Error(),
	})
}
