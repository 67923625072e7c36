package service

import (
	"context"

	"github.com/passerby7890/v2board-bot/internal/domain"
)

type bindRegistry interface {
	CreateBinding(ctx context.Context, telegramID int64, email string) error
}

type bindPanel interface {
	UserByEmail(ctx context.Context, email string) (*domain.PanelUser, error)
	PlanName(ctx context.Context, planID int64) string
}

// BindService links a Telegram account to a panel account. Binding is
// read-only against the panel; the only mutation is the local registry insert,
// whose unique constraint arbitrates concurrent binds to one email.
type BindService struct {
	registry bindRegistry
	panel    bindPanel
}

func NewBindService(registry bindRegistry, panel bindPanel) *BindService {
	return &BindService{
		registry: registry,
		panel:    panel,
	}
}

func (s *BindService) Bind(ctx context.Context, telegramID int64, email string) (*domain.BindResult, error) {
	user, err := s.panel.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.registry.CreateBinding(ctx, telegramID, user.Email); err != nil {
		return nil, err
	}

	return &domain.BindResult{
		Email:          user.Email,
		PlanName:       s.panel.PlanName(ctx, user.PlanID),
		TransferEnable: user.TransferEnable,
	}, nil
}
