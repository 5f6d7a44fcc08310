package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"squad-ladder/internal/api"
	"squad-ladder/internal/domain"
	"squad-ladder/internal/repository"
)

// ------------------------
// Fake Riot API
// ------------------------

type FakeRiotAPI struct {
	mu    sync.Mutex
	trace []string

	ResolveIdentityFunc    func(ctx context.Context, name, tag, region string) (*api.Account, error)
	FetchStandingsFunc     func(ctx context.Context, puuid, region string) ([]api.LeagueEntry, error)
	ListRecentMatchIDsFunc func(ctx context.Context, puuid, region string, queueID, limit int) ([]string, error)
	FetchMatchDetailFunc   func(ctx context.Context, matchID, region string) (*api.MatchDetail, error)
}

func (f *FakeRiotAPI) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeRiotAPI) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

func (f *FakeRiotAPI) Count(step string) int {
	n := 0
	for _, s := range f.Trace() {
		if s == step {
			n++
		}
	}
	return n
}

func (f *FakeRiotAPI) ResolveIdentity(ctx context.Context, name, tag, region string) (*api.Account, error) {
	f.record("ResolveIdentity")
	if f.ResolveIdentityFunc != nil {
		return f.ResolveIdentityFunc(ctx, name, tag, region)
	}
	return &api.Account{PUUID: "puuid-" + name, GameName: name, TagLine: tag}, nil
}

func (f *FakeRiotAPI) FetchStandings(ctx context.Context, puuid, region string) ([]api.LeagueEntry, error) {
	f.record("FetchStandings")
	if f.FetchStandingsFunc != nil {
		return f.FetchStandingsFunc(ctx, puuid, region)
	}
	return nil, nil
}

func (f *FakeRiotAPI) ListRecentMatchIDs(ctx context.Context, puuid, region string, queueID, limit int) ([]string, error) {
	f.record("ListRecentMatchIDs")
	if f.ListRecentMatchIDsFunc != nil {
		return f.ListRecentMatchIDsFunc(ctx, puuid, region, queueID, limit)
	}
	return nil, nil
}

func (f *FakeRiotAPI) FetchMatchDetail(ctx context.Context, matchID, region string) (*api.MatchDetail, error) {
	f.record("FetchMatchDetail")
	if f.FetchMatchDetailFunc != nil {
		return f.FetchMatchDetailFunc(ctx, matchID, region)
	}
	return &api.MatchDetail{}, nil
}

// ------------------------
// In-memory stores
// ------------------------

// memStore keeps players, ranks and champion stats in maps. The Func fields
// override single operations to inject failures.
type memStore struct {
	mu        sync.Mutex
	seq       int
	players   []domain.Player
	ranks     map[string]*domain.RankEntry // key player|queue
	champions map[string][]domain.ChampionUsageStat
	deletes   []string // key player|queue

	ListFunc         func(ctx context.Context) ([]domain.Player, error)
	UpdateFunc       func(ctx context.Context, entry *domain.RankEntry) error
	ListRankingFunc  func(ctx context.Context, queue domain.QueueType) ([]repository.RankedPlayer, error)
	ListByPlayersErr error
}

func newMemStore() *memStore {
	return &memStore{
		ranks:     make(map[string]*domain.RankEntry),
		champions: make(map[string][]domain.ChampionUsageStat),
	}
}

func rankKey(playerID string, queue domain.QueueType) string {
	return playerID + "|" + string(queue)
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

func (m *memStore) CreateWithRanks(_ context.Context, player *domain.Player, ranks []domain.RankEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.Nickname == player.Nickname && p.Tag == player.Tag {
			return domain.ErrConflict
		}
	}
	if player.ID == "" {
		player.ID = m.nextID("p")
	}
	m.players = append(m.players, *player)
	for i := range ranks {
		r := ranks[i]
		r.PlayerID = player.ID
		r.ID = m.nextID("r")
		m.ranks[rankKey(r.PlayerID, r.QueueType)] = &r
	}
	return nil
}

func (m *memStore) GetByNameTag(_ context.Context, nickname, tag string) (*domain.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.players {
		if p.Nickname == nickname && p.Tag == tag {
			p := p
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) List(ctx context.Context) ([]domain.Player, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Player(nil), m.players...), nil
}

func (m *memStore) GetByPlayerQueue(_ context.Context, playerID string, queue domain.QueueType) (*domain.RankEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ranks[rankKey(playerID, queue)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) Insert(_ context.Context, entry *domain.RankEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == "" {
		entry.ID = m.nextID("r")
	}
	cp := *entry
	m.ranks[rankKey(entry.PlayerID, entry.QueueType)] = &cp
	return nil
}

func (m *memStore) Update(ctx context.Context, entry *domain.RankEntry) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.ranks[rankKey(entry.PlayerID, entry.QueueType)] = &cp
	return nil
}

func (m *memStore) ListRanking(ctx context.Context, queue domain.QueueType) ([]repository.RankedPlayer, error) {
	if m.ListRankingFunc != nil {
		return m.ListRankingFunc(ctx, queue)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repository.RankedPlayer
	for _, p := range m.players {
		if r, ok := m.ranks[rankKey(p.ID, queue)]; ok {
			out = append(out, repository.RankedPlayer{Player: p, Rank: *r})
		}
	}
	return out, nil
}

func (m *memStore) rank(playerID string, queue domain.QueueType) *domain.RankEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ranks[rankKey(playerID, queue)]
}

// championStore is a separate value because RankStore and ChampionStore both
// declare Insert.
type championStore struct{ *memStore }

func (c championStore) DeleteByPlayerQueue(_ context.Context, playerID string, queue domain.QueueType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes = append(c.deletes, rankKey(playerID, queue))
	kept := c.champions[playerID][:0]
	for _, st := range c.champions[playerID] {
		if st.QueueType != queue {
			kept = append(kept, st)
		}
	}
	c.champions[playerID] = kept
	return nil
}

func (c championStore) Insert(_ context.Context, stat domain.ChampionUsageStat) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.champions[stat.PlayerID] = append(c.champions[stat.PlayerID], stat)
	return nil
}

func (c championStore) ListByPlayers(_ context.Context, playerIDs []string) (map[string][]domain.ChampionUsageStat, error) {
	if c.ListByPlayersErr != nil {
		return nil, c.ListByPlayersErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string][]domain.ChampionUsageStat)
	for _, id := range playerIDs {
		out[id] = append([]domain.ChampionUsageStat(nil), c.champions[id]...)
	}
	return out, nil
}

func (c championStore) stats(playerID string, queue domain.QueueType) []domain.ChampionUsageStat {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []domain.ChampionUsageStat
	for _, st := range c.champions[playerID] {
		if st.QueueType == queue {
			out = append(out, st)
		}
	}
	return out
}

func (c championStore) deletedFor(playerID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []string
	for _, k := range c.deletes {
		if strings.HasPrefix(k, playerID+"|") {
			out = append(out, k)
		}
	}
	return out
}

// newMatch builds a match detail where puuid played champ.
func newMatch(id, puuid string, champ int) *api.MatchDetail {
	m := &api.MatchDetail{}
	m.Metadata.MatchID = id
	m.Info.Participants = []api.Participant{
		{PUUID: "someone-else", ChampionID: 1},
		{PUUID: puuid, ChampionID: champ},
	}
	return m
}
