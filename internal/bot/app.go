// Package bot implements the workout assistant on top of the shared core.
package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/NeverDieOne/train-bot/core/bootstrap"
	"github.com/NeverDieOne/train-bot/core/logger"
	coretelegram "github.com/NeverDieOne/train-bot/core/telegram"
	"github.com/NeverDieOne/train-bot/core/telegram/commands"
	"github.com/NeverDieOne/train-bot/core/telegram/router"
	"github.com/NeverDieOne/train-bot/internal/reminder"
	"github.com/NeverDieOne/train-bot/internal/session"

	tele "gopkg.in/telebot.v4"
)

// App wires storage, the conversation machine, and the Telegram runtime.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	store    session.Store
	renderer *Renderer
	locks    *userLocks

	rem *reminder.Scheduler
}

// New bootstraps infrastructure (logger, database, migrations) and builds the app.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		db:       res.DB,
		store:    session.NewPostgresStore(res.DB),
		renderer: NewRenderer(),
		locks:    newUserLocks(),
	}, nil
}

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Главное меню",
	})
	reg.RegisterCommand("/reset", commands.Command{
		Handler:     a.handleReset,
		Description: "Начать тренировку с первого шага",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Статистика бота",
		AdminOnly:   true,
		Hidden:      true,
	})
}

func (a *App) registerCallbacks(reg *coretelegram.Registry) error {
	callbacks := map[string]tele.HandlerFunc{
		cbTrain:    a.handleTrainTap,
		cbAddTrain: a.handleAddWorkoutTap,
		cbBack:     a.handleBackTap,
		cbNextStep: a.handleNextStepTap,
	}
	for key, h := range callbacks {
		if err := reg.RegisterCallback(key, h); err != nil {
			return fmt.Errorf("bot: register callback %q: %w", key, err)
		}
	}
	return nil
}

// TelegramRunOptions assembles routes, middleware, and lifecycle hooks.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	if err := a.registerCallbacks(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}

	coreCfg := a.cfg.CoreConfig()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: coreCfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(fsmAdapter{app: a}, reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      coreCfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(coreCfg, nil),
		Routes:      routes,
		OnStart:     a.onStart,
		OnStop:      a.onStop,
	}, nil
}

func (a *App) onStart(_ context.Context, rt coretelegram.Runtime) error {
	if !a.cfg.Reminder.Enabled {
		return nil
	}
	rem, err := reminder.New(a.store, rt.Bot, reminder.Options{
		Hour:   a.cfg.Reminder.Hour,
		Minute: a.cfg.Reminder.Minute,
		Text:   textReminder,
		Markup: menuMarkup(),
	})
	if err != nil {
		return err
	}
	a.rem = rem
	a.rem.Start()
	return nil
}

func (a *App) onStop(_ context.Context, _ coretelegram.Runtime) error {
	if a.rem != nil {
		if err := a.rem.Stop(); err != nil {
			logger.REM.Warn("reminder shutdown failed")
		}
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
