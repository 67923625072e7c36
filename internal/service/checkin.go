package service

import (
	"context"
	"fmt"
	"time"

	"github.com/passerby7890/v2board-bot/internal/domain"
	"github.com/passerby7890/v2board-bot/pkg/logger"
)

type checkinRegistry interface {
	Binding(ctx context.Context, telegramID int64) (*domain.Binding, error)
	RecordClaim(ctx context.Context, telegramID int64, streak int, date string) error
}

type checkinPanel interface {
	UserByEmail(ctx context.Context, email string) (*domain.PanelUser, error)
	PlanName(ctx context.Context, planID int64) string
	AddTraffic(ctx context.Context, userID int64, deltaBytes int64) error
}

// CheckinService coordinates one daily claim: binding lookup, panel snapshot,
// plan gate, streak decision, reward draw, remote credit and local commit.
//
// The remote credit deliberately happens before the local streak commit. If
// the process dies between the two, the user keeps the credited reward and the
// stale last_checkin_date lets a later claim proceed normally; failing toward
// an occasional extra claim is preferred over losing a credited reward.
type CheckinService struct {
	registry     checkinRegistry
	panel        checkinPanel
	rewards      *RewardCalculator
	allowedPlans map[int64]struct{}
	locks        *userLocks
}

func NewCheckinService(registry checkinRegistry, panel checkinPanel, rewards *RewardCalculator, allowedPlanIDs []int64) *CheckinService {
	var allowed map[int64]struct{}
	if len(allowedPlanIDs) > 0 {
		allowed = make(map[int64]struct{}, len(allowedPlanIDs))
		for _, id := range allowedPlanIDs {
			allowed[id] = struct{}{}
		}
	}

	return &CheckinService{
		registry:     registry,
		panel:        panel,
		rewards:      rewards,
		allowedPlans: allowed,
		locks:        newUserLocks(),
	}
}

// Checkin issues at most one reward per user per calendar day. The day is the
// civil date of the caller-supplied time; callers must evaluate it in the
// process reference zone.
func (s *CheckinService) Checkin(ctx context.Context, telegramID int64, today time.Time) (*domain.CheckinResult, error) {
	unlock := s.locks.lock(telegramID)
	defer unlock()

	binding, err := s.registry.Binding(ctx, telegramID)
	if err != nil {
		return nil, err
	}

	user, err := s.panel.UserByEmail(ctx, binding.Email)
	if err != nil {
		return nil, err
	}

	if s.allowedPlans != nil {
		if _, ok := s.allowedPlans[user.PlanID]; !ok {
			return nil, domain.ErrPlanNotAllowed
		}
	}

	decision, streak := NextStreak(binding.LastCheckin, binding.Streak, today)
	if decision == StreakAlreadyClaimed {
		return nil, domain.ErrAlreadyCheckedIn
	}

	baseMB := s.rewards.RollBase()
	multiplier, reason, critical := s.rewards.Compute(streak)
	rewardBytes := RewardBytes(baseMB, multiplier)
	if rewardBytes <= 0 {
		logger.Log.Error("computed non-positive reward",
			logger.Int64("telegram_id", telegramID),
			logger.Int("base_mb", baseMB),
			logger.Float64("multiplier", multiplier),
		)
		return nil, fmt.Errorf("computed non-positive reward %d", rewardBytes)
	}

	if err := s.panel.AddTraffic(ctx, user.ID, rewardBytes); err != nil {
		return nil, err
	}

	if err := s.registry.RecordClaim(ctx, telegramID, streak, today.Format(dateLayout)); err != nil {
		// The credit already landed; only the advisory streak state is stale.
		logger.Log.Error("streak commit failed after credit",
			logger.Int64("telegram_id", telegramID),
			logger.Int64("reward_bytes", rewardBytes),
			logger.Error(err),
		)
		return nil, err
	}

	return &domain.CheckinResult{
		Streak:      streak,
		Multiplier:  multiplier,
		Reason:      reason,
		Critical:    critical,
		RewardBytes: rewardBytes,
		NewTotal:    user.TransferEnable + rewardBytes,
		PlanName:    s.panel.PlanName(ctx, user.PlanID),
		Account:     *user,
	}, nil
}
