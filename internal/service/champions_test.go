package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"squad-ladder/internal/api"
	"squad-ladder/internal/config"
	"squad-ladder/internal/domain"
	"squad-ladder/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		MatchFetchDelay:   time.Second,
		RateLimitCooldown: time.Millisecond,
		PlayerDelay:       time.Second,
		MatchListLimit:    10,
		TopChampions:      3,
	}
}

func newTestAggregator(riot RiotAPI) (*ChampionAggregator, *[]time.Duration) {
	agg := NewChampionAggregator(riot, testConfig(), metrics.NewNoop(), zerolog.Nop())
	var pauses []time.Duration
	agg.pause = func(_ context.Context, d time.Duration) { pauses = append(pauses, d) }
	return agg, &pauses
}

// matchesByChampion returns a fake whose match ids map to the given champions.
func matchesByChampion(puuid string, champs map[string]int, ids []string) *FakeRiotAPI {
	return &FakeRiotAPI{
		ListRecentMatchIDsFunc: func(_ context.Context, _, _ string, _, _ int) ([]string, error) {
			return ids, nil
		},
		FetchMatchDetailFunc: func(_ context.Context, id, _ string) (*api.MatchDetail, error) {
			return newMatch(id, puuid, champs[id]), nil
		},
	}
}

func TestTopChampionsCountsAndOrders(t *testing.T) {
	champs := map[string]int{"m1": 64, "m2": 157, "m3": 157, "m4": 99, "m5": 64, "m6": 157, "m7": 12}
	ids := []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7"}
	riot := matchesByChampion("p1", champs, ids)
	agg, pauses := newTestAggregator(riot)

	top, err := agg.TopChampions(context.Background(), "p1", "BR", domain.QueueSolo, 3, make(MatchCache))
	require.NoError(t, err)
	assert.Equal(t, []domain.ChampionCount{
		{ChampionID: 157, PlayCount: 3},
		{ChampionID: 64, PlayCount: 2},
		{ChampionID: 99, PlayCount: 1},
	}, top)
	assert.Len(t, *pauses, len(ids))
	for _, d := range *pauses {
		assert.Equal(t, time.Second, d)
	}
}

func TestTopChampionsPassesQueueAndLimit(t *testing.T) {
	var gotQueue, gotLimit int
	riot := &FakeRiotAPI{
		ListRecentMatchIDsFunc: func(_ context.Context, _, _ string, queueID, limit int) ([]string, error) {
			gotQueue, gotLimit = queueID, limit
			return nil, nil
		},
	}
	agg, _ := newTestAggregator(riot)

	top, err := agg.TopChampions(context.Background(), "p1", "BR", domain.QueueFlex, 3, make(MatchCache))
	require.NoError(t, err)
	assert.Empty(t, top)
	assert.Equal(t, 440, gotQueue)
	assert.Equal(t, 10, gotLimit)
}

func TestTopChampionsBounds(t *testing.T) {
	champs := map[string]int{"m1": 1, "m2": 2, "m3": 3, "m4": 4}
	ids := []string{"m1", "m2", "m3", "m4"}

	tests := []struct {
		name string
		topN int
		want int
	}{
		{"fewer than available", 2, 2},
		{"more than available", 10, 4},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg, _ := newTestAggregator(matchesByChampion("p1", champs, ids))
			top, err := agg.TopChampions(context.Background(), "p1", "BR", domain.QueueSolo, tt.topN, make(MatchCache))
			require.NoError(t, err)
			assert.Len(t, top, tt.want)
		})
	}
}

func TestTopChampionsTiesKeepFirstSeenOrder(t *testing.T) {
	champs := map[string]int{"m1": 30, "m2": 10, "m3": 20}
	agg, _ := newTestAggregator(matchesByChampion("p1", champs, []string{"m1", "m2", "m3"}))

	top, err := agg.TopChampions(context.Background(), "p1", "BR", domain.QueueSolo, 3, make(MatchCache))
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, 30, top[0].ChampionID)
	assert.Equal(t, 10, top[1].ChampionID)
	assert.Equal(t, 20, top[2].ChampionID)
}

func TestTopChampionsUsesCache(t *testing.T) {
	champs := map[string]int{"m1": 1, "m2": 2}
	riot := matchesByChampion("p1", champs, []string{"m1", "m2"})
	agg, pauses := newTestAggregator(riot)

	cache := MatchCache{"m1": newMatch("m1", "p1", 1)}
	top, err := agg.TopChampions(context.Background(), "p1", "BR", domain.QueueSolo, 3, cache)
	require.NoError(t, err)
	assert.Len(t, top, 2)
	assert.Equal(t, 1, riot.Count("FetchMatchDetail"))
	assert.Len(t, *pauses, 1)
	assert.Contains(t, cache, "m2")

	_, err = agg.TopChampions(context.Background(), "p1", "BR", domain.QueueFlex, 3, cache)
	require.NoError(t, err)
	assert.Equal(t, 1, riot.Count("FetchMatchDetail"))
}

func TestTopChampionsListingFailure(t *testing.T) {
	riot := &FakeRiotAPI{
		ListRecentMatchIDsFunc: func(_ context.Context, _, _ string, _, _ int) ([]string, error) {
			return nil, &api.Error{Op: "match_ids", Status: 503}
		},
	}
	agg, _ := newTestAggregator(riot)

	top, err := agg.TopChampions(context.Background(), "p1", "BR", domain.QueueSolo, 3, make(MatchCache))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.NotNil(t, top)
	assert.Empty(t, top)
	assert.Zero(t, riot.Count("FetchMatchDetail"))
}

func TestTopChampionsRetriesOnceOnRateLimit(t *testing.T) {
	attempts := map[string]int{}
	riot := &FakeRiotAPI{
		ListRecentMatchIDsFunc: func(_ context.Context, _, _ string, _, _ int) ([]string, error) {
			return []string{"m1", "m2", "m3"}, nil
		},
		FetchMatchDetailFunc: func(_ context.Context, id, _ string) (*api.MatchDetail, error) {
			attempts[id]++
			switch {
			case id == "m1" && attempts[id] == 1:
				return nil, &api.Error{Op: "match", Target: id, Status: 429}
			case id == "m2":
				return nil, &api.Error{Op: "match", Target: id, Status: 429}
			}
			return newMatch(id, "p1", 7), nil
		},
	}
	agg, _ := newTestAggregator(riot)

	top, err := agg.TopChampions(context.Background(), "p1", "BR", domain.QueueSolo, 3, make(MatchCache))
	require.NoError(t, err)
	assert.Equal(t, []domain.ChampionCount{{ChampionID: 7, PlayCount: 2}}, top)
	assert.Equal(t, 2, attempts["m1"])
	assert.Equal(t, 2, attempts["m2"])
	assert.Equal(t, 1, attempts["m3"])
}

func TestTopChampionsSkipsOtherFailures(t *testing.T) {
	attempts := 0
	riot := &FakeRiotAPI{
		ListRecentMatchIDsFunc: func(_ context.Context, _, _ string, _, _ int) ([]string, error) {
			return []string{"bad", "m2", "foreign"}, nil
		},
		FetchMatchDetailFunc: func(_ context.Context, id, _ string) (*api.MatchDetail, error) {
			switch id {
			case "bad":
				attempts++
				return nil, errors.New("connection reset")
			case "foreign":
				return newMatch(id, "other", 5), nil
			}
			return newMatch(id, "p1", 3), nil
		},
	}
	agg, pauses := newTestAggregator(riot)

	top, err := agg.TopChampions(context.Background(), "p1", "BR", domain.QueueSolo, 3, make(MatchCache))
	require.NoError(t, err)
	assert.Equal(t, []domain.ChampionCount{{ChampionID: 3, PlayCount: 1}}, top)
	assert.Equal(t, 1, attempts)
	assert.Len(t, *pauses, 3)
}
