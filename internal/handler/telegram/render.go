package telegram

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/passerby7890/v2board-bot/internal/domain"
)

const progressBarCells = 10

func renderBind(result *domain.BindResult) string {
	return fmt.Sprintf(
		"✅ <b>Bound!</b>\n\n👤 Account: %s\n📦 Plan: %s\n📊 Current quota: %s\n\nYou can now send <code>/checkin</code> once a day!",
		result.Email, result.PlanName, formatBytes(result.TransferEnable),
	)
}

func renderBindError(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return "🚫 Bind failed: no panel account with that email."
	case errors.Is(err, domain.ErrEmailTaken):
		return "🚫 Bind failed: that email is already bound to another Telegram account."
	default:
		return "⚠️ Something went wrong, please try again later."
	}
}

func renderCheckin(result *domain.CheckinResult, displayName string, loc *time.Location) string {
	header := "🎉 <b>Checked in!</b>"
	if result.Critical {
		header = "🎰 <b>Critical hit!</b>"
	}

	used := result.Account.Upload + result.Account.Download

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n👤 %s\n🔥 Streak: <b>%d</b> days — %s\n\n", header, displayName, result.Streak, reasonLabel(result.Reason))
	fmt.Fprintf(&b, "📦 Plan: %s\n⏳ Expires: %s\n", result.PlanName, expiryLabel(result.Account.ExpiredAt, loc))
	fmt.Fprintf(&b, "🎁 Reward: x%g (<b>%s</b>)\n🌊 Quota: %s\n\n", result.Multiplier, formatBytes(result.RewardBytes), formatBytes(result.NewTotal))
	fmt.Fprintf(&b, "📊 Usage: %s / %s\n%s\n\n", formatBytes(used), formatBytes(result.NewTotal), progressBar(used, result.NewTotal))
	fmt.Fprintf(&b, "📉 Downloaded: %s\n📈 Uploaded: %s\n", formatBytes(result.Account.Download), formatBytes(result.Account.Upload))
	b.WriteString("📜 <b>Rules:</b>\n• Day 7: x2 | Day 14: x3 | Day 21: x4\n• Missing a day resets the streak; daily random criticals")

	return b.String()
}

func renderCheckinError(err error) string {
	switch {
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return "📅 <b>Already checked in today</b>\nCome back tomorrow!"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "❌ Your panel account could not be found. Re-check your binding."
	case errors.Is(err, domain.ErrPlanNotAllowed):
		return "🚫 Your plan is not eligible for check-in rewards."
	default:
		return "⚠️ Check-in failed, please try again later."
	}
}

func reasonLabel(reason domain.Reason) string {
	switch reason {
	case domain.ReasonStreak7:
		return "🔥 7-day streak, double reward!"
	case domain.ReasonStreak14:
		return "💎 14-day streak, triple reward!"
	case domain.ReasonStreak21:
		return "👑 21-day streak, quadruple reward!"
	case domain.ReasonCritical:
		return "✨ lucky critical"
	default:
		return "daily check-in"
	}
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}

	return humanize.IBytes(uint64(n))
}

func expiryLabel(expiredAt *int64, loc *time.Location) string {
	if expiredAt == nil {
		return "unlimited"
	}

	return time.Unix(*expiredAt, 0).In(loc).Format("2006-01-02")
}

func progressBar(used, total int64) string {
	if total <= 0 {
		return strings.Repeat("⬜", progressBarCells)
	}

	percent := float64(used) / float64(total)
	if percent > 1 {
		percent = 1
	}
	if percent < 0 {
		percent = 0
	}

	filled := int(progressBarCells * percent)
	bar := strings.Repeat("🟦", filled) + strings.Repeat("⬜", progressBarCells-filled)

	return fmt.Sprintf("%s (%.1f%%)", bar, percent*100)
}
