package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func TestNextStreak(t *testing.T) {
	today := date(2025, 3, 10)

	tests := []struct {
		name         string
		lastCheckin  string
		streak       int
		today        time.Time
		wantDecision StreakDecision
		wantStreak   int
	}{
		{"never checked in", "", 0, today, StreakReset, 1},
		{"same day", "2025-03-10", 4, today, StreakAlreadyClaimed, 4},
		{"yesterday continues", "2025-03-09", 4, today, StreakContinued, 5},
		{"two day gap resets", "2025-03-08", 9, today, StreakReset, 1},
		{"long gap resets", "2024-11-20", 21, today, StreakReset, 1},
		{"month boundary continues", "2025-02-28", 2, date(2025, 3, 1), StreakContinued, 3},
		{"year boundary continues", "2024-12-31", 6, date(2025, 1, 1), StreakContinued, 7},
		{"garbage date resets", "not-a-date", 3, today, StreakReset, 1},
	}

	for _, ts := range tests {
		t.Run(ts.name, func(t *testing.T) {
			decision, streak := NextStreak(ts.lastCheckin, ts.streak, ts.today)
			require.Equal(t, ts.wantDecision, decision)
			require.Equal(t, ts.wantStreak, streak)
		})
	}
}

func TestNextStreakDeterministic(t *testing.T) {
	today := date(2025, 6, 1)

	for i := 0; i < 100; i++ {
		decision, streak := NextStreak("2025-05-31", 10, today)
		require.Equal(t, StreakContinued, decision)
		require.Equal(t, 11, streak)
	}
}
