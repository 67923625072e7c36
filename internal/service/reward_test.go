package service

import (
	"math/rand"
	"testing"

	"github.com/passerby7890/v2board-bot/internal/domain"
	"github.com/stretchr/testify/require"
)

func testRewardConfig() RewardConfig {
	return RewardConfig{
		BaseMinMB:      100,
		BaseMaxMB:      500,
		CritRate:       0.1,
		CritMultiplier: 1.5,
		Milestones:     map[int]float64{7: 2, 14: 3, 21: 4},
	}
}

func TestMilestonesDeterministic(t *testing.T) {
	tests := []struct {
		streak     int
		wantMult   float64
		wantReason domain.Reason
	}{
		{7, 2.0, domain.ReasonStreak7},
		{14, 3.0, domain.ReasonStreak14},
		{21, 4.0, domain.ReasonStreak21},
	}

	// Milestones must not depend on the random source.
	for seed := int64(0); seed < 10; seed++ {
		calc := NewRewardCalculator(testRewardConfig(), rand.New(rand.NewSource(seed)))
		for _, ts := range tests {
			mult, reason, critical := calc.Compute(ts.streak)
			require.Equal(t, ts.wantMult, mult, "streak=%d seed=%d", ts.streak, seed)
			require.Equal(t, ts.wantReason, reason, "streak=%d seed=%d", ts.streak, seed)
			require.True(t, critical, "streak=%d seed=%d", ts.streak, seed)
		}
	}
}

func TestMilestonesDoNotRecur(t *testing.T) {
	cfg := testRewardConfig()
	cfg.CritRate = 0
	calc := NewRewardCalculator(cfg, rand.New(rand.NewSource(1)))

	for _, streak := range []int{28, 35, 42} {
		mult, reason, critical := calc.Compute(streak)
		require.Equal(t, 1.0, mult, "streak=%d", streak)
		require.Equal(t, domain.ReasonDaily, reason, "streak=%d", streak)
		require.False(t, critical, "streak=%d", streak)
	}
}

func TestZeroCritRate(t *testing.T) {
	cfg := testRewardConfig()
	cfg.CritRate = 0
	calc := NewRewardCalculator(cfg, rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		mult, reason, critical := calc.Compute(3)
		require.Equal(t, 1.0, mult)
		require.Equal(t, domain.ReasonDaily, reason)
		require.False(t, critical)
	}
}

func TestCertainCritRate(t *testing.T) {
	cfg := testRewardConfig()
	cfg.CritRate = 1
	calc := NewRewardCalculator(cfg, rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		mult, reason, critical := calc.Compute(3)
		require.Equal(t, cfg.CritMultiplier, mult)
		require.Equal(t, domain.ReasonCritical, reason)
		require.True(t, critical)
	}
}

func TestCritRateConvergence(t *testing.T) {
	calc := NewRewardCalculator(testRewardConfig(), rand.New(rand.NewSource(1)))

	const trials = 20000
	crits := 0
	for i := 0; i < trials; i++ {
		mult, _, critical := calc.Compute(3)
		if critical {
			crits++
			require.Equal(t, 1.5, mult)
		} else {
			require.Equal(t, 1.0, mult)
		}
	}

	rate := float64(crits) / trials
	require.InDelta(t, 0.1, rate, 0.02)
}

func TestRollBaseRange(t *testing.T) {
	calc := NewRewardCalculator(testRewardConfig(), rand.New(rand.NewSource(7)))

	for i := 0; i < 10000; i++ {
		base := calc.RollBase()
		require.GreaterOrEqual(t, base, 100)
		require.LessOrEqual(t, base, 500)
	}
}

func TestRollBaseDegenerateRange(t *testing.T) {
	cfg := testRewardConfig()
	cfg.BaseMinMB = 250
	cfg.BaseMaxMB = 250
	calc := NewRewardCalculator(cfg, rand.New(rand.NewSource(7)))

	for i := 0; i < 100; i++ {
		require.Equal(t, 250, calc.RollBase())
	}
}

func TestRewardBytes(t *testing.T) {
	tests := []struct {
		baseMB     int
		multiplier float64
		want       int64
	}{
		{100, 1.0, 104857600},
		{500, 1.0, 524288000},
		{100, 2.0, 209715200},
		{333, 1.5, 523763712},
		{1, 1.5, 1572864},
	}

	for _, ts := range tests {
		require.Equal(t, ts.want, RewardBytes(ts.baseMB, ts.multiplier), "base=%d mult=%v", ts.baseMB, ts.multiplier)
	}
}
