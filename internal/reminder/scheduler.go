// Package reminder delivers the daily workout nudge.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/NeverDieOne/train-bot/core/logger"
	"github.com/NeverDieOne/train-bot/internal/progress"
	"github.com/NeverDieOne/train-bot/internal/session"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Sender is the outbound capability the scheduler needs from the bot.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Options configure the daily reminder job.
type Options struct {
	Hour   int
	Minute int
	Text   string
	Markup *tele.ReplyMarkup
}

// Scheduler runs a single daily job that messages every chat with a workout
// loaded that has not been completed today. Delivery never mutates sessions.
type Scheduler struct {
	sched gocron.Scheduler
	store session.Store
	bot   Sender
	opts  Options
}

// New builds the scheduler without starting it.
func New(store session.Store, bot Sender, opts Options) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("reminder: scheduler init: %w", err)
	}

	s := &Scheduler{
		sched: sched,
		store: store,
		bot:   bot,
		opts:  opts,
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(
			gocron.NewAtTime(uint(opts.Hour), uint(opts.Minute), 0),
		)),
		gocron.NewTask(s.run),
	)
	if err != nil {
		return nil, fmt.Errorf("reminder: job registration: %w", err)
	}
	return s, nil
}

// Start launches the background job.
func (s *Scheduler) Start() {
	s.sched.Start()
	logger.REM.Info("reminder scheduled",
		slog.String("event", "start"),
		slog.String("at", fmt.Sprintf("%02d:%02d", s.opts.Hour, s.opts.Minute)),
	)
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(logger.Background(), 5*time.Minute)
	defer cancel()

	today := progress.Today()
	recipients, err := s.store.DueForReminder(ctx, today)
	if err != nil {
		logger.REM.Error("reminder query failed",
			slog.String("event", "query"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return
	}

	sent := 0
	for _, r := range recipients {
		_, err := s.bot.Send(tele.ChatID(r.ChatID), s.opts.Text, &tele.SendOptions{
			ParseMode:   tele.ModeHTML,
			ReplyMarkup: s.opts.Markup,
		})
		if err != nil {
			logger.REM.Warn("reminder send failed",
				slog.String("event", "send"),
				slog.Int64("chat_id", r.ChatID),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
			continue
		}
		sent++
	}

	logger.REM.Info("reminders delivered",
		slog.String("event", "complete"),
		slog.Int("reminders", sent),
		slog.Int("candidates", len(recipients)),
	)
}
