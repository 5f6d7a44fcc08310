package service

import (
	"context"
	"time"

	"squad-ladder/internal/api"
	"squad-ladder/internal/domain"
	"squad-ladder/internal/repository"
)

type RiotAPI interface {
	ResolveIdentity(ctx context.Context, name, tag, region string) (*api.Account, error)
	FetchStandings(ctx context.Context, puuid, region string) ([]api.LeagueEntry, error)
	ListRecentMatchIDs(ctx context.Context, puuid, region string, queueID, limit int) ([]string, error)
	FetchMatchDetail(ctx context.Context, matchID, region string) (*api.MatchDetail, error)
}

type PlayerStore interface {
	CreateWithRanks(ctx context.Context, player *domain.Player, ranks []domain.RankEntry) error
	GetByNameTag(ctx context.Context, nickname, tag string) (*domain.Player, error)
	List(ctx context.Context) ([]domain.Player, error)
}

type RankStore interface {
	GetByPlayerQueue(ctx context.Context, playerID string, queue domain.QueueType) (*domain.RankEntry, error)
	Insert(ctx context.Context, entry *domain.RankEntry) error
	Update(ctx context.Context, entry *domain.RankEntry) error
	ListRanking(ctx context.Context, queue domain.QueueType) ([]repository.RankedPlayer, error)
}

type ChampionStore interface {
	DeleteByPlayerQueue(ctx context.Context, playerID string, queue domain.QueueType) error
	Insert(ctx context.Context, stat domain.ChampionUsageStat) error
	ListByPlayers(ctx context.Context, playerIDs []string) (map[string][]domain.ChampionUsageStat, error)
}

var (
	_ RiotAPI       = (*api.RiotClient)(nil)
	_ PlayerStore   = (*repository.PlayerRepository)(nil)
	_ RankStore     = (*repository.RankRepository)(nil)
	_ ChampionStore = (*repository.ChampionRepository)(nil)
)

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
