// Package ranking holds the pure scoring and ordering rules of the ladder.
package ranking

import (
	"sort"

	"squad-ladder/internal/domain"
)

const divisionStep = 50

var tierBase = map[domain.Tier]int{
	domain.TierIron:        0,
	domain.TierBronze:      200,
	domain.TierSilver:      400,
	domain.TierGold:        700,
	domain.TierPlatinum:    1000,
	domain.TierEmerald:     1300,
	domain.TierDiamond:     1600,
	domain.TierMaster:      2000,
	domain.TierGrandmaster: 2500,
	domain.TierChallenger:  3000,
}

// Score maps a tier and division to a scalar. Tiers without divisions and
// unknown divisions contribute no offset.
func Score(tier domain.Tier, division domain.Division) int {
	base := tierBase[tier]
	if !tier.HasDivisions() || division == domain.DivisionNone {
		return base
	}
	return base + int(division-domain.DivisionIV)*divisionStep
}

type Standing struct {
	Tier         domain.Tier
	Division     domain.Division
	LeaguePoints int
}

func effectiveDivision(s Standing) domain.Division {
	if s.Tier >= domain.TierMaster {
		return domain.DivisionI
	}
	return s.Division
}

// Compare returns a negative number when a ranks below b, zero when tied and
// a positive number when a ranks above b.
func Compare(a, b Standing) int {
	if a.Tier != b.Tier {
		return int(a.Tier) - int(b.Tier)
	}
	if da, db := effectiveDivision(a), effectiveDivision(b); da != db {
		return int(da) - int(db)
	}
	return a.LeaguePoints - b.LeaguePoints
}

// Sort orders items best first. Ties keep their input order.
func Sort[T any](items []T, standing func(T) Standing) {
	sort.SliceStable(items, func(i, j int) bool {
		return Compare(standing(items[i]), standing(items[j])) > 0
	})
}
