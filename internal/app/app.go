package app

import (
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/passerby7890/v2board-bot/internal/config"
	"github.com/passerby7890/v2board-bot/internal/panel"
	"github.com/passerby7890/v2board-bot/internal/registry"
	"github.com/passerby7890/v2board-bot/internal/service"
	"github.com/passerby7890/v2board-bot/pkg/logger"
)

type App struct {
	Config   *config.Config
	PanelDB  *sql.DB
	Registry *registry.Registry
	Panel    *panel.Panel
	Checkin  *service.CheckinService
	Bind     *service.BindService
	Location *time.Location

	startedAt time.Time
}

func New(cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	milestones, err := cfg.MilestoneTable()
	if err != nil {
		return nil, fmt.Errorf("error parsing milestone table: %w", err)
	}

	panelDB, err := initPanelDB(cfg.PanelDSN)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Open(cfg.BindingsPath)
	if err != nil {
		if closeErr := panelDB.Close(); closeErr != nil {
			logger.Log.Error("error closing panel database", logger.Error(closeErr))
		}
		return nil, err
	}

	panelClient := panel.New(panelDB, cfg.QueryTimeout)

	rewards := service.NewRewardCalculator(service.RewardConfig{
		BaseMinMB:      cfg.BaseMinMB,
		BaseMaxMB:      cfg.BaseMaxMB,
		CritRate:       cfg.CritRate,
		CritMultiplier: cfg.CritMultiplier,
		Milestones:     milestones,
	}, rand.New(rand.NewSource(time.Now().UnixNano())))

	return &App{
		Config:    cfg,
		PanelDB:   panelDB,
		Registry:  reg,
		Panel:     panelClient,
		Checkin:   service.NewCheckinService(reg, panelClient, rewards, cfg.AllowedPlanIDs),
		Bind:      service.NewBindService(reg, panelClient),
		Location:  loc,
		startedAt: time.Now(),
	}, nil
}

func (app *App) Close() {
	if err := app.Registry.Close(); err != nil {
		logger.Log.Error("error closing bindings database", logger.Error(err))
	}
	if err := app.PanelDB.Close(); err != nil {
		logger.Log.Error("error closing panel database connection", logger.Error(err))
	}
}

func initPanelDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening panel database: %w", err)
	}

	// Connections are pooled and short-lived per call; the ceiling tracks the
	// worker pool, not request volume.
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(time.Minute)

	if err = db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("error closing panel database after ping failure: %w", closeErr)
		}
		return nil, fmt.Errorf("error pinging panel database: %w", err)
	}

	return db, nil
}
