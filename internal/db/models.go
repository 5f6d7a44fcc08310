package db

import (
	"database/sql"
	"time"
)

type Player struct {
	ID        string
	Nickname  string
	Tag       string
	Region    string
	CreatedAt time.Time
}

type Rank struct {
	ID           string
	PlayerID     string
	QueueType    string
	Tier         string
	Rank         string
	Points       int64
	LeaguePoints int64
	LastUpdate   sql.NullTime
}

type ChampionMastery struct {
	PlayerID       string
	ChampionID     int64
	ChampionLevel  sql.NullInt64
	ChampionPoints int64
	Position       int64
	QueueType      string
	LastUpdate     time.Time
}
