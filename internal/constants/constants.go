package constants

import "time"

// pacing against the Riot development key budget (100 requests / 2 minutes)
const (
	MatchFetchDelay   = 1300 * time.Millisecond
	RateLimitCooldown = 10 * time.Second
	PlayerDelay       = 2500 * time.Millisecond
)

const (
	RiotRateLimit  = 100
	RiotRateWindow = 2 * time.Minute
	RiotRateBurst  = 20
)

const (
	MatchListLimit = 10
	TopChampions   = 3
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)
