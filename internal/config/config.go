package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"squad-ladder/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const DefaultRiotHostTemplate = "https://{host}.api.riotgames.com"

type Config struct {
	RiotAPIKey       string
	RiotHostTemplate string
	DBPath           string
	ServerPort       string
	LogLevel         string

	MatchFetchDelay   time.Duration
	RateLimitCooldown time.Duration
	PlayerDelay       time.Duration
	MatchListLimit    int
	TopChampions      int

	RiotRateLimit  int
	RiotRateWindow time.Duration
	RiotRateBurst  int

	// 0 disables the background scheduler
	SyncInterval time.Duration

	envFileLoaded bool
}

// Load reads .env, when present, and the environment. It runs before the
// logger exists so LOG_LEVEL from .env reaches it.
func Load() (*Config, error) {
	envErr := godotenv.Load()

	cfg := &Config{
		RiotAPIKey:       getEnv("RIOT_API_KEY", ""),
		RiotHostTemplate: getEnv("RIOT_API_HOST_TEMPLATE", DefaultRiotHostTemplate),
		DBPath:           getEnv("DB_PATH", "squad-ladder.db"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		envFileLoaded:    envErr == nil,
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	var err error
	durations := []struct {
		key      string
		fallback time.Duration
		dst      *time.Duration
	}{
		{"MATCH_FETCH_DELAY", constants.MatchFetchDelay, &cfg.MatchFetchDelay},
		{"RATE_LIMIT_COOLDOWN", constants.RateLimitCooldown, &cfg.RateLimitCooldown},
		{"PLAYER_DELAY", constants.PlayerDelay, &cfg.PlayerDelay},
		{"RIOT_RATE_WINDOW", constants.RiotRateWindow, &cfg.RiotRateWindow},
		{"SYNC_INTERVAL", 0, &cfg.SyncInterval},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, d.fallback); err != nil {
			return nil, err
		}
	}

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"MATCH_LIST_LIMIT", constants.MatchListLimit, &cfg.MatchListLimit},
		{"TOP_CHAMPIONS", constants.TopChampions, &cfg.TopChampions},
		{"RIOT_RATE_LIMIT", constants.RiotRateLimit, &cfg.RiotRateLimit},
		{"RIOT_RATE_BURST", constants.RiotRateBurst, &cfg.RiotRateBurst},
	}
	for _, i := range ints {
		if *i.dst, err = getInt(i.key, i.fallback); err != nil {
			return nil, err
		}
	}

	if cfg.MatchListLimit <= 0 || cfg.TopChampions <= 0 {
		return nil, fmt.Errorf("MATCH_LIST_LIMIT and TOP_CHAMPIONS must be positive")
	}

	return cfg, nil
}

func logLoaded(cfg *Config, logger zerolog.Logger) {
	if !cfg.envFileLoaded {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("match_fetch_delay", cfg.MatchFetchDelay).
		Dur("player_delay", cfg.PlayerDelay).
		Dur("sync_interval", cfg.SyncInterval).
		Msg("configuration loaded")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return i, nil
}

var Module = fx.Options(
	fx.Provide(Load),
	fx.Invoke(logLoaded),
)
