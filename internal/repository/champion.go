package repository

import (
	"context"

	"squad-ladder/internal/db"
	"squad-ladder/internal/domain"

	"github.com/rs/zerolog"
)

type ChampionRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewChampionRepository(queries *db.Queries, logger zerolog.Logger) *ChampionRepository {
	return &ChampionRepository{
		queries: queries,
		logger:  logger,
	}
}

func (r *ChampionRepository) DeleteByPlayerQueue(ctx context.Context, playerID string, queue domain.QueueType) error {
	err := r.queries.DeleteChampionMasteriesByPlayerQueue(ctx, db.DeleteChampionMasteriesByPlayerQueueParams{
		PlayerID:  playerID,
		QueueType: string(queue),
	})
	if err != nil {
		return persistence("failed to delete champion stats", err)
	}
	return nil
}

func (r *ChampionRepository) Insert(ctx context.Context, stat domain.ChampionUsageStat) error {
	err := r.queries.InsertChampionMastery(ctx, db.InsertChampionMasteryParams{
		PlayerID:       stat.PlayerID,
		ChampionID:     int64(stat.ChampionID),
		ChampionPoints: int64(stat.PlayCount),
		Position:       int64(stat.Position),
		QueueType:      string(stat.QueueType),
		LastUpdate:     stat.LastUpdate,
	})
	if err != nil {
		return persistence("failed to insert champion stat", err)
	}
	return nil
}

// ListByPlayers groups stats by player id, ordered by queue then position.
func (r *ChampionRepository) ListByPlayers(ctx context.Context, playerIDs []string) (map[string][]domain.ChampionUsageStat, error) {
	rows, err := r.queries.ListChampionMasteriesByPlayers(ctx, playerIDs)
	if err != nil {
		return nil, persistence("failed to list champion stats", err)
	}

	result := make(map[string][]domain.ChampionUsageStat, len(playerIDs))
	for _, row := range rows {
		result[row.PlayerID] = append(result[row.PlayerID], domain.ChampionUsageStat{
			PlayerID:   row.PlayerID,
			QueueType:  domain.QueueType(row.QueueType),
			ChampionID: int(row.ChampionID),
			PlayCount:  int(row.ChampionPoints),
			Position:   int(row.Position),
			LastUpdate: row.LastUpdate,
		})
	}
	return result, nil
}
