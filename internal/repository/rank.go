package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"squad-ladder/internal/db"
	"squad-ladder/internal/domain"

	"github.com/rs/zerolog"
)

type RankRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewRankRepository(queries *db.Queries, logger zerolog.Logger) *RankRepository {
	return &RankRepository{
		queries: queries,
		logger:  logger,
	}
}

// RankedPlayer is one row of the per-queue ranking join.
type RankedPlayer struct {
	Player domain.Player
	Rank   domain.RankEntry
}

func (r *RankRepository) GetByPlayerQueue(ctx context.Context, playerID string, queue domain.QueueType) (*domain.RankEntry, error) {
	rank, err := r.queries.GetRankByPlayerQueue(ctx, db.GetRankByPlayerQueueParams{
		PlayerID:  playerID,
		QueueType: string(queue),
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistence("failed to get rank", err)
	}
	entry := toDomainRank(rank)
	return &entry, nil
}

func (r *RankRepository) Insert(ctx context.Context, entry *domain.RankEntry) error {
	if entry.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		entry.ID = id
	}
	err := r.queries.CreateRank(ctx, db.CreateRankParams{
		ID:           entry.ID,
		PlayerID:     entry.PlayerID,
		QueueType:    string(entry.QueueType),
		Tier:         entry.Tier.String(),
		Rank:         entry.Division.String(),
		Points:       int64(entry.Score),
		LeaguePoints: int64(entry.LeaguePoints),
		LastUpdate:   nullTime(entry.LastUpdate),
	})
	if err != nil {
		return persistence("failed to insert rank", err)
	}
	return nil
}

func (r *RankRepository) Update(ctx context.Context, entry *domain.RankEntry) error {
	lastUpdate := time.Now().UTC()
	if entry.LastUpdate != nil {
		lastUpdate = *entry.LastUpdate
	}
	err := r.queries.UpdateRank(ctx, db.UpdateRankParams{
		Tier:         entry.Tier.String(),
		Rank:         entry.Division.String(),
		Points:       int64(entry.Score),
		LeaguePoints: int64(entry.LeaguePoints),
		LastUpdate:   lastUpdate,
		ID:           entry.ID,
	})
	if err != nil {
		return persistence("failed to update rank", err)
	}
	return nil
}

// ListRanking returns every player holding a rank row for queue, unsorted.
func (r *RankRepository) ListRanking(ctx context.Context, queue domain.QueueType) ([]RankedPlayer, error) {
	rows, err := r.queries.ListRankingByQueue(ctx, string(queue))
	if err != nil {
		return nil, persistence("failed to list ranking", err)
	}

	result := make([]RankedPlayer, len(rows))
	for i, row := range rows {
		result[i] = RankedPlayer{
			Player: domain.Player{
				ID:        row.PlayerID,
				Nickname:  row.Nickname,
				Tag:       row.Tag,
				Region:    row.Region,
				CreatedAt: row.PlayerCreatedAt,
			},
			Rank: domain.RankEntry{
				ID:           row.RankID,
				PlayerID:     row.PlayerID,
				QueueType:    queue,
				Tier:         domain.ParseTier(row.Tier),
				Division:     domain.ParseDivision(row.Rank),
				LeaguePoints: int(row.LeaguePoints),
				Score:        int(row.Points),
				LastUpdate:   timePtr(row.LastUpdate),
			},
		}
	}
	return result, nil
}

func toDomainRank(rank db.Rank) domain.RankEntry {
	return domain.RankEntry{
		ID:           rank.ID,
		PlayerID:     rank.PlayerID,
		QueueType:    domain.QueueType(rank.QueueType),
		Tier:         domain.ParseTier(rank.Tier),
		Division:     domain.ParseDivision(rank.Rank),
		LeaguePoints: int(rank.LeaguePoints),
		Score:        int(rank.Points),
		LastUpdate:   timePtr(rank.LastUpdate),
	}
}
