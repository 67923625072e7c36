package panel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/passerby7890/v2board-bot/internal/domain"
	"github.com/passerby7890/v2board-bot/pkg/logger"
)

// Panel is a client of the externally-owned panel database. It reads the few
// account fields the bot depends on and mutates exactly one of them,
// transfer_enable. The schema belongs to the panel; this client never creates
// or migrates tables.
type Panel struct {
	DB      *sql.DB
	timeout time.Duration
}

func New(db *sql.DB, timeout time.Duration) *Panel {
	return &Panel{DB: db, timeout: timeout}
}

func (p *Panel) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.DB.PingContext(ctx)
}

// UserByEmail fetches a point-in-time snapshot of the account row. Absence is
// a business result (domain.ErrAccountNotFound); any transport or timeout
// failure surfaces as domain.ErrPanelUnavailable.
func (p *Panel) UserByEmail(ctx context.Context, email string) (*domain.PanelUser, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	row := p.DB.QueryRowContext(ctx,
		"SELECT id, email, transfer_enable, u, d, plan_id, expired_at FROM v2_user WHERE email = ?", email)

	var user domain.PanelUser
	err := row.Scan(&user.ID, &user.Email, &user.TransferEnable, &user.Upload, &user.Download, &user.PlanID, &user.ExpiredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		logger.Log.Error("error fetching panel user", logger.Error(err))
		return nil, fmt.Errorf("fetching panel user: %w", domain.ErrPanelUnavailable)
	}

	return &user, nil
}

// PlanName resolves a plan id to its display name. The name is cosmetic, so
// any failure degrades to a fallback label instead of failing the caller.
func (p *Panel) PlanName(ctx context.Context, planID int64) string {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var name string
	err := p.DB.QueryRowContext(ctx, "SELECT name FROM v2_plan WHERE id = ?", planID).Scan(&name)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Log.Warn("error fetching plan name", logger.Int64("plan_id", planID), logger.Error(err))
		}
		return fmt.Sprintf("plan:%d", planID)
	}

	return name
}

// AddTraffic credits reward bytes onto the account quota. The increment runs
// in the database so concurrent credits for one account never lose updates.
func (p *Panel) AddTraffic(ctx context.Context, userID int64, deltaBytes int64) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err := p.DB.ExecContext(ctx,
		"UPDATE v2_user SET transfer_enable = transfer_enable + ? WHERE id = ?", deltaBytes, userID)
	if err != nil {
		logger.Log.Error("error crediting traffic", logger.Int64("user_id", userID), logger.Int64("delta_bytes", deltaBytes), logger.Error(err))
		return fmt.Errorf("crediting traffic: %w", domain.ErrPanelUnavailable)
	}

	return nil
}
