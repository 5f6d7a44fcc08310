package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"squad-ladder/internal/api"
	"squad-ladder/internal/config"
	"squad-ladder/internal/domain"
	"squad-ladder/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// MatchCache holds match details already fetched for one player during one
// sync pass, so a match listed under both queues is fetched once.
type MatchCache map[string]*api.MatchDetail

type ChampionAggregator struct {
	riot       RiotAPI
	listLimit  int
	fetchDelay time.Duration
	cooldown   time.Duration
	metrics    *metrics.Metrics
	logger     zerolog.Logger

	pause func(ctx context.Context, d time.Duration)
}

func NewChampionAggregator(riot RiotAPI, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *ChampionAggregator {
	cooldown := cfg.RateLimitCooldown
	if cooldown <= 0 {
		cooldown = time.Millisecond
	}
	return &ChampionAggregator{
		riot:       riot,
		listLimit:  cfg.MatchListLimit,
		fetchDelay: cfg.MatchFetchDelay,
		cooldown:   cooldown,
		metrics:    m,
		logger:     logger,
		pause:      sleepCtx,
	}
}

// TopChampions counts the champions the player used in their most recent
// matches of queue and returns the topN most played.
//
// A failed match listing yields an empty slice together with the error; the
// slice is always safe to use. Individual match failures only skip the match.
func (a *ChampionAggregator) TopChampions(ctx context.Context, puuid, region string, queue domain.QueueType, topN int, cache MatchCache) ([]domain.ChampionCount, error) {
	ids, err := a.riot.ListRecentMatchIDs(ctx, puuid, region, queue.QueueID(), a.listLimit)
	if err != nil {
		a.logger.Warn().Err(err).Str("puuid", puuid).Str("queue", string(queue)).Msg("failed to list recent matches")
		return []domain.ChampionCount{}, fmt.Errorf("failed to list %s matches: %w", queue, err)
	}

	counts := make(map[int]int)
	var order []int

	for _, id := range ids {
		match, ok := cache[id]
		if ok {
			a.metrics.MatchCacheHits.Inc()
		} else {
			a.metrics.MatchCacheMisses.Inc()
			match, err = a.fetchMatch(ctx, id, region)
			a.pause(ctx, a.fetchDelay)
			if err != nil {
				reason := "upstream"
				if errors.Is(err, domain.ErrRateLimited) {
					reason = "rate_limited"
				}
				a.metrics.MatchesSkipped.WithLabelValues(reason).Inc()
				a.logger.Warn().Err(err).Str("match_id", id).Msg("skipping match")
				continue
			}
			cache[id] = match
		}

		champ, found := match.ChampionFor(puuid)
		if !found {
			a.metrics.MatchesSkipped.WithLabelValues("participant_missing").Inc()
			continue
		}
		if _, seen := counts[champ]; !seen {
			order = append(order, champ)
		}
		counts[champ]++
	}

	result := make([]domain.ChampionCount, 0, len(order))
	for _, champ := range order {
		result = append(result, domain.ChampionCount{ChampionID: champ, PlayCount: counts[champ]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PlayCount > result[j].PlayCount
	})
	if topN >= 0 && len(result) > topN {
		result = result[:topN]
	}

	a.logger.Debug().
		Str("puuid", puuid).
		Str("queue", string(queue)).
		Int("matches", len(ids)).
		Int("champions", len(result)).
		Msg("aggregated champion usage")

	return result, nil
}

// fetchMatch retries once after the cooldown when the API rate limits us.
func (a *ChampionAggregator) fetchMatch(ctx context.Context, matchID, region string) (*api.MatchDetail, error) {
	var match *api.MatchDetail
	backoff := retry.WithMaxRetries(1, retry.NewConstant(a.cooldown))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		m, err := a.riot.FetchMatchDetail(ctx, matchID, region)
		if errors.Is(err, domain.ErrRateLimited) {
			a.logger.Warn().Str("match_id", matchID).Dur("cooldown", a.cooldown).Msg("rate limited on match, cooling down")
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		match = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}
