package db

import (
	"context"
	"database/sql"
	"time"
)

const createRank = `
INSERT INTO ranks (id, player_id, queue_type, tier, rank, points, league_points, last_update)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateRankParams struct {
	ID           string
	PlayerID     string
	QueueType    string
	Tier         string
	Rank         string
	Points       int64
	LeaguePoints int64
	LastUpdate   sql.NullTime
}

func (q *Queries) CreateRank(ctx context.Context, arg CreateRankParams) error {
	_, err := q.db.ExecContext(ctx, createRank,
		arg.ID,
		arg.PlayerID,
		arg.QueueType,
		arg.Tier,
		arg.Rank,
		arg.Points,
		arg.LeaguePoints,
		arg.LastUpdate,
	)
	return err
}

const getRankByPlayerQueue = `
SELECT id, player_id, queue_type, tier, rank, points, league_points, last_update
FROM ranks
WHERE player_id = ? AND queue_type = ?
`

type GetRankByPlayerQueueParams struct {
	PlayerID  string
	QueueType string
}

func (q *Queries) GetRankByPlayerQueue(ctx context.Context, arg GetRankByPlayerQueueParams) (Rank, error) {
	row := q.db.QueryRowContext(ctx, getRankByPlayerQueue, arg.PlayerID, arg.QueueType)
	var i Rank
	err := row.Scan(
		&i.ID,
		&i.PlayerID,
		&i.QueueType,
		&i.Tier,
		&i.Rank,
		&i.Points,
		&i.LeaguePoints,
		&i.LastUpdate,
	)
	return i, err
}

const updateRank = `
UPDATE ranks
SET tier = ?, rank = ?, points = ?, league_points = ?, last_update = ?
WHERE id = ?
`

type UpdateRankParams struct {
	Tier         string
	Rank         string
	Points       int64
	LeaguePoints int64
	LastUpdate   time.Time
	ID           string
}

func (q *Queries) UpdateRank(ctx context.Context, arg UpdateRankParams) error {
	_, err := q.db.ExecContext(ctx, updateRank,
		arg.Tier,
		arg.Rank,
		arg.Points,
		arg.LeaguePoints,
		arg.LastUpdate,
		arg.ID,
	)
	return err
}

const listRankingByQueue = `
SELECT p.id, p.nickname, p.tag, p.region, p.created_at,
       r.id, r.tier, r.rank, r.points, r.league_points, r.last_update
FROM players p
JOIN ranks r ON r.player_id = p.id
WHERE r.queue_type = ?
ORDER BY p.created_at, p.id
`

type ListRankingByQueueRow struct {
	PlayerID        string
	Nickname        string
	Tag             string
	Region          string
	PlayerCreatedAt time.Time
	RankID          string
	Tier            string
	Rank            string
	Points          int64
	LeaguePoints    int64
	LastUpdate      sql.NullTime
}

func (q *Queries) ListRankingByQueue(ctx context.Context, queueType string) ([]ListRankingByQueueRow, error) {
	rows, err := q.db.QueryContext(ctx, listRankingByQueue, queueType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRankingByQueueRow
	for rows.Next() {
		var i ListRankingByQueueRow
		if err := rows.Scan(
			&i.PlayerID,
			&i.Nickname,
			&i.Tag,
			&i.Region,
			&i.PlayerCreatedAt,
			&i.RankID,
			&i.Tier,
			&i.Rank,
			&i.Points,
			&i.LeaguePoints,
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
