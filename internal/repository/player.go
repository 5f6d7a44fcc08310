package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"squad-ladder/internal/db"
	"squad-ladder/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// CreateWithRanks inserts the player and its initial rank rows in one
// transaction. A duplicate (nickname, tag) returns domain.ErrConflict.
func (r *PlayerRepository) CreateWithRanks(ctx context.Context, player *domain.Player, ranks []domain.RankEntry) error {
	if player.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		player.ID = id
	}
	if player.CreatedAt.IsZero() {
		player.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence("failed to begin transaction", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	err = qtx.CreatePlayer(ctx, db.CreatePlayerParams{
		ID:        player.ID,
		Nickname:  player.Nickname,
		Tag:       player.Tag,
		Region:    player.Region,
		CreatedAt: player.CreatedAt,
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", domain.ErrConflict, player.RiotID())
	}
	if err != nil {
		return persistence("failed to create player", err)
	}

	for i := range ranks {
		rank := &ranks[i]
		rank.PlayerID = player.ID
		if rank.ID == "" {
			if rank.ID, err = newID(); err != nil {
				return err
			}
		}
		err := qtx.CreateRank(ctx, db.CreateRankParams{
			ID:           rank.ID,
			PlayerID:     rank.PlayerID,
			QueueType:    string(rank.QueueType),
			Tier:         rank.Tier.String(),
			Rank:         rank.Division.String(),
			Points:       int64(rank.Score),
			LeaguePoints: int64(rank.LeaguePoints),
			LastUpdate:   nullTime(rank.LastUpdate),
		})
		if err != nil {
			return persistence(fmt.Sprintf("failed to create %s rank for %s", rank.QueueType, player.RiotID()), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return persistence("failed to commit player", err)
	}

	r.logger.Debug().Str("player_id", player.ID).Str("riot_id", player.RiotID()).Msg("player created")
	return nil
}

func (r *PlayerRepository) GetByNameTag(ctx context.Context, nickname, tag string) (*domain.Player, error) {
	p, err := r.queries.GetPlayerByNameTag(ctx, db.GetPlayerByNameTagParams{
		Nickname: nickname,
		Tag:      tag,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistence("failed to get player", err)
	}
	return toDomainPlayer(p), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	players, err := r.queries.ListPlayers(ctx)
	if err != nil {
		return nil, persistence("failed to list players", err)
	}

	result := make([]domain.Player, len(players))
	for i, p := range players {
		result[i] = *toDomainPlayer(p)
	}
	return result, nil
}

func toDomainPlayer(p db.Player) *domain.Player {
	return &domain.Player{
		ID:        p.ID,
		Nickname:  p.Nickname,
		Tag:       p.Tag,
		Region:    p.Region,
		CreatedAt: p.CreatedAt,
	}
}
