package service

import "time"

const dateLayout = "2006-01-02"

type StreakDecision int

const (
	StreakAlreadyClaimed StreakDecision = iota
	StreakContinued
	StreakReset
)

// NextStreak decides how a check-in on the given day advances the streak.
// Dates are compared as whole calendar days: a check-in yesterday continues
// the streak, a check-in today is a duplicate, and any longer gap (or a user
// who has never checked in) resets the streak to one.
func NextStreak(lastCheckin string, streak int, today time.Time) (StreakDecision, int) {
	switch lastCheckin {
	case today.Format(dateLayout):
		return StreakAlreadyClaimed, streak
	case today.AddDate(0, 0, -1).Format(dateLayout):
		return StreakContinued, streak + 1
	default:
		return StreakReset, 1
	}
}
