package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"squad-ladder/internal/constants"
	"squad-ladder/internal/domain"
	"squad-ladder/internal/metrics"
	"squad-ladder/internal/repository"

	"github.com/rs/zerolog"
)

type RegisterInput struct {
	Nickname string `json:"nickname"`
	Tag      string `json:"tag"`
	Region   string `json:"region"`
}

type PlayerService struct {
	players PlayerStore
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewPlayerService(players PlayerStore, m *metrics.Metrics, logger zerolog.Logger) *PlayerService {
	return &PlayerService{players: players, metrics: m, logger: logger}
}

// Register adds a player to the group with a floor rank in every tracked
// queue. Nothing is fetched upstream; the next sync fills in real standings.
func (s *PlayerService) Register(ctx context.Context, in RegisterInput) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	nickname := strings.TrimSpace(in.Nickname)
	tag := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(in.Tag), "#"))
	if nickname == "" || tag == "" {
		return nil, fmt.Errorf("%w: nickname and tag are required", domain.ErrValidation)
	}

	region := strings.ToUpper(strings.TrimSpace(in.Region))
	if region == "" {
		region = domain.DefaultRegion
	}

	existing, err := s.players.GetByNameTag(ctx, nickname, tag)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrConflict, existing.RiotID())
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error().Err(err).Str("nickname", nickname).Str("tag", tag).Msg("failed to check existing player")
		return nil, err
	}

	player := &domain.Player{
		Nickname: nickname,
		Tag:      tag,
		Region:   region,
	}

	ranks := make([]domain.RankEntry, 0, len(domain.TrackedQueues))
	for _, q := range domain.TrackedQueues {
		ranks = append(ranks, domain.RankEntry{
			QueueType: q,
			Tier:      domain.FloorTier,
			Division:  domain.FloorDivision,
		})
	}

	if err := s.players.CreateWithRanks(ctx, player, ranks); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.logger.Error().Err(err).Str("player", player.RiotID()).Msg("failed to create player")
		}
		return nil, err
	}

	s.metrics.PlayersRegistered.Inc()
	s.logger.Info().Str("player_id", player.ID).Str("player", player.RiotID()).Str("region", region).Msg("player registered")
	return player, nil
}

func (s *PlayerService) List(ctx context.Context) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	players, err := s.players.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list players")
		return nil, err
	}
	return players, nil
}
