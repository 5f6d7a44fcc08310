package service

import (
	"context"
	"sort"
	"time"

	"squad-ladder/internal/constants"
	"squad-ladder/internal/domain"
	"squad-ladder/internal/ranking"
	"squad-ladder/internal/repository"

	"github.com/rs/zerolog"
)

type RankingRow struct {
	Position      int              `json:"position"`
	Player        domain.Player    `json:"player"`
	Tier          string           `json:"tier"`
	Division      string           `json:"rank"`
	LeaguePoints  int              `json:"leaguePoints"`
	Score         int              `json:"points"`
	LastUpdate    *time.Time       `json:"lastUpdate"`
	SoloChampions []RankedChampion `json:"soloChampions"`
	FlexChampions []RankedChampion `json:"flexChampions"`
}

type RankedChampion struct {
	ChampionID int `json:"championId"`
	PlayCount  int `json:"playCount"`
	Position   int `json:"position"`
}

type RankingService struct {
	ranks     RankStore
	champions ChampionStore
	logger    zerolog.Logger
}

func NewRankingService(ranks RankStore, champions ChampionStore, logger zerolog.Logger) *RankingService {
	return &RankingService{ranks: ranks, champions: champions, logger: logger}
}

// BuildRanking returns the leaderboard for queue. Players without a rank row
// for queue are left out. Champion lists are empty when the stats can't be
// loaded.
func (s *RankingService) BuildRanking(ctx context.Context, queue domain.QueueType) ([]RankingRow, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	entries, err := s.ranks.ListRanking(ctx, queue)
	if err != nil {
		s.logger.Error().Err(err).Str("queue", string(queue)).Msg("failed to load ranking")
		return nil, err
	}

	ranking.Sort(entries, func(e repository.RankedPlayer) ranking.Standing {
		return ranking.Standing{
			Tier:         e.Rank.Tier,
			Division:     e.Rank.Division,
			LeaguePoints: e.Rank.LeaguePoints,
		}
	})

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Player.ID
	}
	stats, err := s.champions.ListByPlayers(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Str("queue", string(queue)).Msg("failed to load champion stats, rendering ranks only")
		stats = nil
	}

	rows := make([]RankingRow, len(entries))
	for i, e := range entries {
		rows[i] = RankingRow{
			Position:      i + 1,
			Player:        e.Player,
			Tier:          e.Rank.Tier.String(),
			Division:      e.Rank.Division.String(),
			LeaguePoints:  e.Rank.LeaguePoints,
			Score:         e.Rank.Score,
			LastUpdate:    e.Rank.LastUpdate,
			SoloChampions: championsFor(stats[e.Player.ID], domain.QueueSolo),
			FlexChampions: championsFor(stats[e.Player.ID], domain.QueueFlex),
		}
	}

	s.logger.Debug().Str("queue", string(queue)).Int("rows", len(rows)).Msg("ranking built")
	return rows, nil
}

func championsFor(stats []domain.ChampionUsageStat, queue domain.QueueType) []RankedChampion {
	var filtered []domain.ChampionUsageStat
	for _, st := range stats {
		if st.QueueType == queue {
			filtered = append(filtered, st)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Position < filtered[j].Position
	})

	out := make([]RankedChampion, len(filtered))
	for i, st := range filtered {
		out[i] = RankedChampion{ChampionID: st.ChampionID, PlayCount: st.PlayCount, Position: st.Position}
	}
	return out
}
