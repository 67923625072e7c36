package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/passerby7890/v2board-bot/internal/domain"
	"github.com/passerby7890/v2board-bot/pkg/logger"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS bindings (
    telegram_id INTEGER PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    streak INTEGER NOT NULL DEFAULT 0,
    last_checkin_date TEXT NOT NULL DEFAULT ''
);`

// Registry is the durable local store of Telegram → panel account bindings
// and their streak state. Email uniqueness is enforced by the table
// constraint, not by a read-then-write check, so it holds under concurrent
// binds.
type Registry struct {
	DB *sql.DB
}

func Open(path string) (*Registry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening bindings database: %w", err)
	}

	// A single connection serialises local writes and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Log.Error("error closing bindings database after schema failure", logger.Error(closeErr))
		}
		return nil, fmt.Errorf("error creating bindings schema: %w", err)
	}

	return &Registry{DB: db}, nil
}

func (r *Registry) Close() error {
	return r.DB.Close()
}

func (r *Registry) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func (r *Registry) Binding(ctx context.Context, telegramID int64) (*domain.Binding, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT telegram_id, email, streak, last_checkin_date FROM bindings WHERE telegram_id = ?", telegramID)

	var binding domain.Binding
	err := row.Scan(&binding.TelegramID, &binding.Email, &binding.Streak, &binding.LastCheckin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotBound
		}
		return nil, fmt.Errorf("error fetching binding: %w", err)
	}

	return &binding, nil
}

// CreateBinding inserts a new binding with a fresh streak. Re-binding the same
// Telegram account to the same email is a no-op; any other conflict, on either
// key, is rejected so that one email can never be held by two accounts.
func (r *Registry) CreateBinding(ctx context.Context, telegramID int64, email string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO bindings (telegram_id, email) VALUES (?, ?)", telegramID, email)
	if err == nil {
		return nil
	}

	if !isConstraintViolation(err) {
		return fmt.Errorf("error creating binding: %w", err)
	}

	existing, lookupErr := r.Binding(ctx, telegramID)
	if lookupErr == nil && existing.Email == email {
		return nil
	}

	logger.Log.Warn("binding conflict", logger.Int64("telegram_id", telegramID))
	return domain.ErrEmailTaken
}

// RecordClaim commits the streak advance for one calendar day. The update is
// conditional on last_checkin_date so a duplicate same-day commit is rejected
// at the store even if the caller's guard was bypassed.
func (r *Registry) RecordClaim(ctx context.Context, telegramID int64, streak int, date string) error {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE bindings SET streak = ?, last_checkin_date = ? WHERE telegram_id = ? AND last_checkin_date <> ?",
		streak, date, telegramID, date)
	if err != nil {
		return fmt.Errorf("error recording claim: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected for claim: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	if _, err := r.Binding(ctx, telegramID); err != nil {
		if errors.Is(err, domain.ErrNotBound) {
			return domain.ErrBindingNotFound
		}
		return err
	}

	logger.Log.Warn("duplicate claim commit rejected", logger.Int64("telegram_id", telegramID), logger.String("date", date))
	return domain.ErrAlreadyCheckedIn
}

func (r *Registry) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM bindings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting bindings: %w", err)
	}

	return count, nil
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
