package db

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const insertChampionMastery = `
INSERT INTO champion_masteries (player_id, champion_id, champion_level, champion_points, position, queue_type, last_update)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type InsertChampionMasteryParams struct {
	PlayerID       string
	ChampionID     int64
	ChampionLevel  sql.NullInt64
	ChampionPoints int64
	Position       int64
	QueueType      string
	LastUpdate     time.Time
}

func (q *Queries) InsertChampionMastery(ctx context.Context, arg InsertChampionMasteryParams) error {
	_, err := q.db.ExecContext(ctx, insertChampionMastery,
		arg.PlayerID,
		arg.ChampionID,
		arg.ChampionLevel,
		arg.ChampionPoints,
		arg.Position,
		arg.QueueType,
		arg.LastUpdate,
	)
	return err
}

const deleteChampionMasteriesByPlayerQueue = `
DELETE FROM champion_masteries WHERE player_id = ? AND queue_type = ?
`

type DeleteChampionMasteriesByPlayerQueueParams struct {
	PlayerID  string
	QueueType string
}

func (q *Queries) DeleteChampionMasteriesByPlayerQueue(ctx context.Context, arg DeleteChampionMasteriesByPlayerQueueParams) error {
	_, err := q.db.ExecContext(ctx, deleteChampionMasteriesByPlayerQueue, arg.PlayerID, arg.QueueType)
	return err
}

const listChampionMasteriesByPlayers = `
SELECT player_id, champion_id, champion_level, champion_points, position, queue_type, last_update
FROM champion_masteries
WHERE player_id IN (/*SLICE:player_ids*/?)
ORDER BY player_id, queue_type, position
`

func (q *Queries) ListChampionMasteriesByPlayers(ctx context.Context, playerIDs []string) ([]ChampionMastery, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	query := listChampionMasteriesByPlayers
	args := make([]interface{}, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}
	placeholders := strings.Repeat(",?", len(playerIDs))[1:]
	query = strings.Replace(query, "/*SLICE:player_ids*/?", placeholders, 1)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ChampionMastery
	for rows.Next() {
		var i ChampionMastery
		if err := rows.Scan(
			&i.PlayerID,
			&i.ChampionID,
			&i.ChampionLevel,
			&i.ChampionPoints,
			&i.Position,
			&i.QueueType,
			&i.LastUpdate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
