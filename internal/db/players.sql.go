package db

import (
	"context"
	"time"
)

const createPlayer = `
INSERT INTO players (id, nickname, tag, region, created_at)
VALUES (?, ?, ?, ?, ?)
`

type CreatePlayerParams struct {
	ID        string
	Nickname  string
	Tag       string
	Region    string
	CreatedAt time.Time
}

func (q *Queries) CreatePlayer(ctx context.Context, arg CreatePlayerParams) error {
	_, err := q.db.ExecContext(ctx, createPlayer,
		arg.ID,
		arg.Nickname,
		arg.Tag,
		arg.Region,
		arg.CreatedAt,
	)
	return err
}

const getPlayerByNameTag = `
SELECT id, nickname, tag, region, created_at
FROM players
WHERE nickname = ? AND tag = ?
`

type GetPlayerByNameTagParams struct {
	Nickname string
	Tag      string
}

func (q *Queries) GetPlayerByNameTag(ctx context.Context, arg GetPlayerByNameTagParams) (Player, error) {
	row := q.db.QueryRowContext(ctx, getPlayerByNameTag, arg.Nickname, arg.Tag)
	var i Player
	err := row.Scan(
		&i.ID,
		&i.Nickname,
		&i.Tag,
		&i.Region,
		&i.CreatedAt,
	)
	return i, err
}

const listPlayers = `
SELECT id, nickname, tag, region, created_at
FROM players
ORDER BY created_at, id
`

func (q *Queries) ListPlayers(ctx context.Context) ([]Player, error) {
	rows, err := q.db.QueryContext(ctx, listPlayers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Player
	for rows.Next() {
		var i Player
		if err := rows.Scan(
			&i.ID,
			&i.Nickname,
			&i.Tag,
			&i.Region,
			&i.CreatedAt,
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
