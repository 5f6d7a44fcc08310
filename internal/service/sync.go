package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"squad-ladder/internal/api"
	"squad-ladder/internal/config"
	"squad-ladder/internal/constants"
	"squad-ladder/internal/domain"
	"squad-ladder/internal/metrics"
	"squad-ladder/internal/ranking"
	"squad-ladder/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type SyncState string

const (
	SyncIdle      SyncState = "idle"
	SyncRunning   SyncState = "running"
	SyncCompleted SyncState = "completed"
)

const (
	rankOpUpdated = "updated"
	rankOpCreated = "created"
)

type RankUpdate struct {
	PlayerID     string           `json:"playerId"`
	Player       string           `json:"player"`
	Queue        domain.QueueType `json:"queue"`
	Tier         string           `json:"tier"`
	Rank         string           `json:"rank"`
	LeaguePoints int              `json:"leaguePoints"`
	Points       int              `json:"points"`
	Status       string           `json:"status"`
}

type PlayerError struct {
	PlayerID string           `json:"playerId"`
	Player   string           `json:"player"`
	Kind     domain.ErrorKind `json:"kind"`
	Error    string           `json:"error"`
}

type SyncSummary struct {
	Success          bool          `json:"success"`
	PlayersProcessed int           `json:"playersProcessed"`
	TotalProcessed   int           `json:"totalProcessed"`
	Results          []RankUpdate  `json:"results"`
	Errors           []PlayerError `json:"errors,omitempty"`
	StartedAt        time.Time     `json:"startedAt"`
	FinishedAt       time.Time     `json:"finishedAt"`
	// Shared is set when the caller joined a run someone else started.
	Shared bool `json:"shared"`
}

type SyncStatus struct {
	State       SyncState    `json:"state"`
	StartedAt   *time.Time   `json:"startedAt,omitempty"`
	LastSummary *SyncSummary `json:"lastSummary,omitempty"`
}

type SyncService struct {
	riot       RiotAPI
	players    PlayerStore
	ranks      RankStore
	champions  ChampionStore
	aggregator *ChampionAggregator

	topN        int
	playerDelay time.Duration
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	group singleflight.Group

	mu        sync.RWMutex
	state     SyncState
	startedAt *time.Time
	last      *SyncSummary
	done      chan struct{} // closed when the current run returns

	pause func(ctx context.Context, d time.Duration)
	now   func() time.Time
}

func NewSyncService(
	riot RiotAPI,
	players PlayerStore,
	ranks RankStore,
	champions ChampionStore,
	aggregator *ChampionAggregator,
	cfg *config.Config,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SyncService {
	return &SyncService{
		riot:        riot,
		players:     players,
		ranks:       ranks,
		champions:   champions,
		aggregator:  aggregator,
		topN:        cfg.TopChampions,
		playerDelay: cfg.PlayerDelay,
		metrics:     m,
		logger:      logger,
		state:       SyncIdle,
		pause:       sleepCtx,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SynchronizeAll refreshes ranks and champion usage for every tracked player.
// Callers arriving while a run is in flight wait for it and get its summary.
// The run keeps going if the caller's context is cancelled.
func (s *SyncService) SynchronizeAll(ctx context.Context) (*SyncSummary, error) {
	runCtx := context.WithoutCancel(ctx)

	ch := s.group.DoChan("sync", func() (any, error) {
		return s.run(runCtx)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}

	summary := *res.Val.(*SyncSummary)
	summary.Shared = res.Shared
	return &summary, nil
}

func (s *SyncService) Status() SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := SyncStatus{State: s.state, StartedAt: s.startedAt}
	if s.last != nil {
		last := *s.last
		status.LastSummary = &last
	}
	return status
}

// Wait blocks until the in-flight run, if any, has returned or ctx is done.
func (s *SyncService) Wait(ctx context.Context) error {
	s.mu.RLock()
	done := s.done
	s.mu.RUnlock()
	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SyncService) run(ctx context.Context) (*SyncSummary, error) {
	started := s.now()
	done := make(chan struct{})
	s.mu.Lock()
	s.state = SyncRunning
	s.startedAt = &started
	s.done = done
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = SyncCompleted
		s.mu.Unlock()
		close(done)
		s.metrics.SyncDuration.Observe(time.Since(started).Seconds())
	}()

	players, err := s.players.List(ctx)
	if err != nil {
		s.metrics.SyncRuns.WithLabelValues("failed").Inc()
		s.logger.Error().Err(err).Msg("failed to list players for sync")
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}

	s.logger.Info().Int("players", len(players)).Msg("starting rank synchronization")

	summary := &SyncSummary{
		Success:   true,
		Results:   []RankUpdate{},
		StartedAt: started,
	}

	for i, player := range players {
		updates, err := s.syncPlayer(ctx, player)
		summary.Results = append(summary.Results, updates...)
		if err != nil {
			kind := domain.KindOf(err)
			s.metrics.SyncPlayerErrors.WithLabelValues(string(kind)).Inc()
			s.logger.Warn().Err(err).Str("player", player.RiotID()).Str("kind", string(kind)).Msg("player sync failed")
			summary.Errors = append(summary.Errors, PlayerError{
				PlayerID: player.ID,
				Player:   player.RiotID(),
				Kind:     kind,
				Error:    err.Error(),
			})
		}
		summary.PlayersProcessed++

		if i < len(players)-1 {
			s.pause(ctx, s.playerDelay)
		}
	}

	summary.TotalProcessed = len(summary.Results)
	summary.FinishedAt = s.now()

	outcome := "ok"
	if len(summary.Errors) > 0 {
		outcome = "partial"
	}
	s.metrics.SyncRuns.WithLabelValues(outcome).Inc()

	s.mu.Lock()
	s.last = summary
	s.mu.Unlock()

	s.logger.Info().
		Int("players", summary.PlayersProcessed).
		Int("results", summary.TotalProcessed).
		Int("errors", len(summary.Errors)).
		Dur("elapsed", summary.FinishedAt.Sub(started)).
		Msg("rank synchronization finished")

	return summary, nil
}

func (s *SyncService) syncPlayer(ctx context.Context, player domain.Player) ([]RankUpdate, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	account, err := s.riot.ResolveIdentity(apiCtx, player.Nickname, player.Tag, player.Region)
	cancel()
	if err != nil {
		if errors.Is(err, domain.ErrNotFoundUpstream) {
			return nil, fmt.Errorf("riot account %s not found: %w", player.RiotID(), err)
		}
		return nil, fmt.Errorf("failed to resolve %s: %w", player.RiotID(), err)
	}

	apiCtx, cancel = context.WithTimeout(ctx, constants.ExternalAPITimeout)
	standings, err := s.riot.FetchStandings(apiCtx, account.PUUID, player.Region)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch standings for %s: %w", player.RiotID(), err)
	}

	s.refreshChampions(ctx, player, account.PUUID)

	var updates []RankUpdate
	for _, entry := range standings {
		update, err := s.upsertRank(ctx, player, entry)
		if err != nil {
			return updates, err
		}
		updates = append(updates, *update)
	}
	return updates, nil
}

// refreshChampions replaces the stored top champions of each tracked queue.
// A queue whose match listing failed keeps its previous rows.
func (s *SyncService) refreshChampions(ctx context.Context, player domain.Player, puuid string) {
	cache := make(MatchCache)
	log := s.logger.With().Str("player", player.RiotID()).Logger()

	for _, queue := range domain.TrackedQueues {
		top, err := s.aggregator.TopChampions(ctx, puuid, player.Region, queue, s.topN, cache)
		if err != nil {
			log.Warn().Err(err).Str("queue", string(queue)).Msg("keeping previous champion stats")
			continue
		}

		if err := s.champions.DeleteByPlayerQueue(ctx, player.ID, queue); err != nil {
			log.Error().Err(err).Str("queue", string(queue)).Msg("failed to clear champion stats")
			continue
		}

		now := s.now()
		for i, c := range top {
			err := s.champions.Insert(ctx, domain.ChampionUsageStat{
				PlayerID:   player.ID,
				QueueType:  queue,
				ChampionID: c.ChampionID,
				PlayCount:  c.PlayCount,
				Position:   i + 1,
				LastUpdate: now,
			})
			if err != nil {
				log.Error().Err(err).Str("queue", string(queue)).Int("position", i+1).Msg("failed to save champion stat")
				break
			}
		}

		log.Debug().Str("queue", string(queue)).Int("champions", len(top)).Msg("champion stats saved")
	}
}

func (s *SyncService) upsertRank(ctx context.Context, player domain.Player, entry api.LeagueEntry) (*RankUpdate, error) {
	queue := domain.QueueType(entry.QueueType)
	tier := domain.ParseTier(entry.Tier)
	division := domain.ParseDivision(entry.Rank)
	score := ranking.Score(tier, division)
	now := s.now()

	op := rankOpUpdated
	existing, err := s.ranks.GetByPlayerQueue(ctx, player.ID, queue)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		op = rankOpCreated
		err = s.ranks.Insert(ctx, &domain.RankEntry{
			PlayerID:     player.ID,
			QueueType:    queue,
			Tier:         tier,
			Division:     division,
			LeaguePoints: entry.LeaguePoints,
			Score:        score,
			LastUpdate:   &now,
		})
	case err == nil:
		existing.Tier = tier
		existing.Division = division
		existing.LeaguePoints = entry.LeaguePoints
		existing.Score = score
		existing.LastUpdate = &now
		err = s.ranks.Update(ctx, existing)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save %s rank for %s: %w", queue, player.RiotID(), err)
	}

	s.metrics.RankUpdates.WithLabelValues(string(queue), op).Inc()

	return &RankUpdate{
		PlayerID:     player.ID,
		Player:       player.RiotID(),
		Queue:        queue,
		Tier:         entry.Tier,
		Rank:         entry.Rank,
		LeaguePoints: entry.LeaguePoints,
		Points:       score,
		Status:       op,
	}, nil
}
