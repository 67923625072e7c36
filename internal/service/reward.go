package service

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/passerby7890/v2board-bot/internal/domain"
)

const bytesPerMB = 1024 * 1024

// RewardConfig is built once at startup and injected; there is no ambient
// reward configuration.
type RewardConfig struct {
	BaseMinMB      int
	BaseMaxMB      int
	CritRate       float64
	CritMultiplier float64
	Milestones     map[int]float64
}

// RewardCalculator draws base amounts and multipliers. The random source is
// injected so tests can pin the draws; access to it is serialised because
// math/rand sources are not safe for concurrent use.
type RewardCalculator struct {
	cfg RewardConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRewardCalculator(cfg RewardConfig, rnd *rand.Rand) *RewardCalculator {
	return &RewardCalculator{
		cfg: cfg,
		rnd: rnd,
	}
}

// Compute returns the multiplier for the given streak. Milestone days take
// precedence and are deterministic; every other day rolls for a critical hit.
func (c *RewardCalculator) Compute(streak int) (float64, domain.Reason, bool) {
	if mult, ok := c.cfg.Milestones[streak]; ok {
		return mult, milestoneReason(streak), true
	}

	c.mu.Lock()
	roll := c.rnd.Float64()
	c.mu.Unlock()

	if roll < c.cfg.CritRate {
		return c.cfg.CritMultiplier, domain.ReasonCritical, true
	}

	return 1.0, domain.ReasonDaily, false
}

// RollBase draws the base reward uniformly from [BaseMinMB, BaseMaxMB],
// independently of the multiplier draw.
func (c *RewardCalculator) RollBase() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cfg.BaseMinMB + c.rnd.Intn(c.cfg.BaseMaxMB-c.cfg.BaseMinMB+1)
}

// RewardBytes converts a base amount in MB and a multiplier into the byte
// delta credited onto the account.
func RewardBytes(baseMB int, multiplier float64) int64 {
	return int64(math.Round(float64(baseMB) * multiplier * bytesPerMB))
}

func milestoneReason(streak int) domain.Reason {
	switch streak {
	case 7:
		return domain.ReasonStreak7
	case 14:
		return domain.ReasonStreak14
	case 21:
		return domain.ReasonStreak21
	default:
		return domain.Reason(fmt.Sprintf("streak-%d", streak))
	}
}
