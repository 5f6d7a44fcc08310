package service

import (
	"context"
	"sync"
	"time"

	"squad-ladder/internal/config"

	"github.com/rs/zerolog"
)

type Synchronizer interface {
	SynchronizeAll(ctx context.Context) (*SyncSummary, error)
}

// Scheduler triggers a sync every interval. A zero interval disables it.
type Scheduler struct {
	sync     Synchronizer
	interval time.Duration
	logger   zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(s *SyncService, cfg *config.Config, logger zerolog.Logger) *Scheduler {
	return &Scheduler{sync: s, interval: cfg.SyncInterval, logger: logger}
}

func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

func (s *Scheduler) Start() {
	if !s.Enabled() {
		s.logger.Info().Msg("periodic sync disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info().Dur("interval", s.interval).Msg("periodic sync started")
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				summary, err := s.sync.SynchronizeAll(ctx)
				if err != nil {
					if ctx.Err() == nil {
						s.logger.Error().Err(err).Msg("scheduled sync failed")
					}
					continue
				}
				s.logger.Info().
					Int("players", summary.PlayersProcessed).
					Int("errors", len(summary.Errors)).
					Bool("shared", summary.Shared).
					Msg("scheduled sync finished")
			}
		}
	}()
}

// Stop waits for the ticker loop to exit. An in-flight run is not interrupted
// but the loop stops waiting for it.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}
