package domain

import (
	"strings"
	"time"
)

type Tier int

const (
	TierUnknown Tier = iota
	TierIron
	TierBronze
	TierSilver
	TierGold
	TierPlatinum
	TierEmerald
	TierDiamond
	TierMaster
	TierGrandmaster
	TierChallenger
)

var tierNames = map[Tier]string{
	TierIron:        "IRON",
	TierBronze:      "BRONZE",
	TierSilver:      "SILVER",
	TierGold:        "GOLD",
	TierPlatinum:    "PLATINUM",
	TierEmerald:     "EMERALD",
	TierDiamond:     "DIAMOND",
	TierMaster:      "MASTER",
	TierGrandmaster: "GRANDMASTER",
	TierChallenger:  "CHALLENGER",
}

func ParseTier(s string) Tier {
	s = strings.ToUpper(strings.TrimSpace(s))
	for t, name := range tierNames {
		if name == s {
			return t
		}
	}
	return TierUnknown
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// HasDivisions reports whether the tier is split into IV..I. Apex tiers are not.
func (t Tier) HasDivisions() bool {
	return t > TierUnknown && t < TierMaster
}

type Division int

const (
	DivisionNone Division = iota
	DivisionIV
	DivisionIII
	DivisionII
	DivisionI
)

func ParseDivision(s string) Division {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IV":
		return DivisionIV
	case "III":
		return DivisionIII
	case "II":
		return DivisionII
	case "I":
		return DivisionI
	default:
		return DivisionNone
	}
}

func (d Division) String() string {
	switch d {
	case DivisionIV:
		return "IV"
	case DivisionIII:
		return "III"
	case DivisionII:
		return "II"
	case DivisionI:
		return "I"
	default:
		return ""
	}
}

type QueueType string

const (
	QueueSolo QueueType = "RANKED_SOLO_5x5"
	QueueFlex QueueType = "RANKED_FLEX_SR"
)

// TrackedQueues are the queues that get champion usage stats and initial rank rows.
var TrackedQueues = []QueueType{QueueSolo, QueueFlex}

// QueueID returns the match-v5 queue filter, or 0 for queues without one.
func (q QueueType) QueueID() int {
	switch q {
	case QueueSolo:
		return 420
	case QueueFlex:
		return 440
	default:
		return 0
	}
}

const (
	DefaultRegion = "BR"
	FloorTier     = TierIron
	FloorDivision = DivisionIV
)

type Player struct {
	ID        string    `json:"id"`
	Nickname  string    `json:"nickname"`
	Tag       string    `json:"tag"`
	Region    string    `json:"region"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p Player) RiotID() string {
	return p.Nickname + "#" + p.Tag
}

type RankEntry struct {
	ID           string
	PlayerID     string
	QueueType    QueueType
	Tier         Tier
	Division     Division
	LeaguePoints int
	Score        int
	LastUpdate   *time.Time // nil until the first successful sync
}

type ChampionUsageStat struct {
	PlayerID   string
	QueueType  QueueType
	ChampionID int
	PlayCount  int
	Position   int
	LastUpdate time.Time
}

type ChampionCount struct {
	ChampionID int `json:"championId"`
	PlayCount  int `json:"playCount"`
}
