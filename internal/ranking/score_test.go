package ranking

import (
	"testing"

	"squad-ladder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTiers = []domain.Tier{
	domain.TierIron, domain.TierBronze, domain.TierSilver, domain.TierGold,
	domain.TierPlatinum, domain.TierEmerald, domain.TierDiamond,
	domain.TierMaster, domain.TierGrandmaster, domain.TierChallenger,
}

var divisionsLowToHigh = []domain.Division{
	domain.DivisionIV, domain.DivisionIII, domain.DivisionII, domain.DivisionI,
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		tier     domain.Tier
		division domain.Division
		want     int
	}{
		{"floor", domain.TierIron, domain.DivisionIV, 0},
		{"gold two", domain.TierGold, domain.DivisionII, 800},
		{"gold one", domain.TierGold, domain.DivisionI, 850},
		{"silver three", domain.TierSilver, domain.DivisionIII, 450},
		{"diamond four", domain.TierDiamond, domain.DivisionIV, 1600},
		{"master ignores division", domain.TierMaster, domain.DivisionI, 2000},
		{"challenger", domain.TierChallenger, domain.DivisionNone, 3000},
		{"missing division", domain.TierBronze, domain.DivisionNone, 200},
		{"unknown tier", domain.TierUnknown, domain.DivisionI, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.tier, tt.division))
		})
	}
}

func TestScoreMonotonicInTier(t *testing.T) {
	for i := 1; i < len(allTiers); i++ {
		lowBest := Score(allTiers[i-1], domain.DivisionI)
		highWorst := Score(allTiers[i], domain.DivisionIV)
		assert.Greater(t, highWorst, lowBest, "%s IV should outscore %s I", allTiers[i], allTiers[i-1])
	}
}

func TestScoreMonotonicInDivision(t *testing.T) {
	for _, tier := range allTiers {
		if !tier.HasDivisions() {
			continue
		}
		for i := 1; i < len(divisionsLowToHigh); i++ {
			assert.Greater(t,
				Score(tier, divisionsLowToHigh[i]),
				Score(tier, divisionsLowToHigh[i-1]),
				"%s %s vs %s", tier, divisionsLowToHigh[i], divisionsLowToHigh[i-1])
		}
	}
}

func TestCompare(t *testing.T) {
	gold2 := func(lp int) Standing { return Standing{domain.TierGold, domain.DivisionII, lp} }

	assert.Positive(t, Compare(gold2(80), gold2(45)))
	assert.Negative(t, Compare(gold2(45), gold2(80)))
	assert.Zero(t, Compare(gold2(45), gold2(45)))

	assert.Positive(t, Compare(
		Standing{domain.TierGold, domain.DivisionI, 0},
		Standing{domain.TierGold, domain.DivisionII, 99},
	))
	assert.Positive(t, Compare(
		Standing{domain.TierPlatinum, domain.DivisionIV, 0},
		Standing{domain.TierGold, domain.DivisionI, 99},
	))

	// apex tiers compare as division I regardless of what was stored
	assert.Zero(t, Compare(
		Standing{domain.TierMaster, domain.DivisionNone, 10},
		Standing{domain.TierMaster, domain.DivisionI, 10},
	))
	assert.Negative(t, Compare(
		Standing{domain.TierUnknown, domain.DivisionI, 99},
		Standing{domain.TierIron, domain.DivisionIV, 0},
	))
}

func TestSort(t *testing.T) {
	type row struct {
		name string
		s    Standing
	}
	rows := []row{
		{"a", Standing{domain.TierGold, domain.DivisionII, 45}},
		{"b", Standing{domain.TierIron, domain.DivisionIV, 0}},
		{"c", Standing{domain.TierGold, domain.DivisionII, 80}},
		{"d", Standing{domain.TierChallenger, domain.DivisionNone, 900}},
		{"e", Standing{domain.TierIron, domain.DivisionIV, 0}},
		{"f", Standing{domain.TierGold, domain.DivisionI, 1}},
	}

	Sort(rows, func(r row) Standing { return r.s })

	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.name
	}
	require.Equal(t, []string{"d", "f", "c", "a", "b", "e"}, names)

	for i := 0; i+1 < len(rows); i++ {
		assert.GreaterOrEqual(t, Compare(rows[i].s, rows[i+1].s), 0)
	}
}
