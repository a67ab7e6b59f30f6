package bot

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/NeverDieOne/train-bot/core/logger"
	tghelpers "github.com/NeverDieOne/train-bot/core/telegram/helpers"
	"github.com/NeverDieOne/train-bot/internal/progress"
	"github.com/NeverDieOne/train-bot/internal/session"
	"github.com/NeverDieOne/train-bot/internal/workout"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// maxWorkoutFileSize caps uploaded document reads.
const maxWorkoutFileSize = 1 << 20

// userLocks serializes event handling per user. Session updates are
// read-modify-write, so concurrent dispatch for one chat must not interleave.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*sync.Mutex)}
}

func (u *userLocks) get(userID int64) *sync.Mutex {
	u.mu.Lock()
	defer u.mu.Unlock()
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	return l
}

// handleEvent loads the session, applies one event, renders the resulting
// screen, and persists the session. Render failures drop the event and leave
// the stored session untouched so the next tap retries from a clean state.
func (a *App) handleEvent(c tele.Context, ev Event) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	chat := c.Chat()
	if chat == nil {
		return nil
	}

	lock := a.locks.get(user.ID)
	lock.Lock()
	defer lock.Unlock()

	ctx := tghelpers.BuildContext(c)

	sess, err := a.store.Load(ctx, user.ID)
	if err != nil {
		logger.Error(ctx, "bot", "session.load.failed",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return err
	}
	if sess == nil {
		sess = session.New(user.ID, chat.ID)
	}
	sess.ChatID = chat.ID

	out := Reduce(sess, ev, progress.Today())
	if !out.Handled {
		logger.Debug(ctx, "bot", "event.ignored",
			slog.String("state", string(sess.State)),
			slog.Int("step", sess.Progress.CurrentStep),
		)
		return nil
	}

	if err := a.renderer.Render(c, sess, out); err != nil {
		logger.Error(ctx, "bot", "screen.render.failed",
			slog.String("state", string(sess.State)),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return err
	}

	if err := a.store.Save(ctx, sess); err != nil {
		logger.Error(ctx, "bot", "session.save.failed",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return err
	}

	logger.Debug(ctx, "bot", "event.handled",
		slog.String("state", string(sess.State)),
		slog.Int("step", sess.Progress.CurrentStep),
	)
	return nil
}

func (a *App) handleStart(c tele.Context) error {
	return a.handleEvent(c, Event{Kind: EventStart})
}

func (a *App) handleReset(c tele.Context) error {
	return a.handleEvent(c, Event{Kind: EventReset})
}

func (a *App) handleTrainTap(c tele.Context) error {
	return a.handleEvent(c, Event{Kind: EventTapTrain})
}

func (a *App) handleAddWorkoutTap(c tele.Context) error {
	return a.handleEvent(c, Event{Kind: EventTapAddWorkout})
}

func (a *App) handleBackTap(c tele.Context) error {
	return a.handleEvent(c, Event{Kind: EventTapBack})
}

func (a *App) handleNextStepTap(c tele.Context) error {
	return a.handleEvent(c, Event{Kind: EventTapNextStep})
}

// handleUpload ingests a workout document. A malformed or undownloadable
// payload keeps the previous workout and asks the user to retry.
func (a *App) handleUpload(c tele.Context) error {
	msg := c.Message()
	if msg == nil || msg.Document == nil {
		return nil
	}
	ctx := tghelpers.BuildContext(c)

	def, err := a.downloadWorkout(c, msg.Document)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, workout.ErrMalformed) {
			level = slog.LevelError
		}
		logger.Event(ctx, "bot", level, "workout.ingest.failed",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return a.handleEvent(c, Event{Kind: EventWorkoutRejected})
	}

	logger.Info(ctx, "bot", "workout.loaded",
		slog.String("workout_id", def.ID.String()),
		slog.Int("steps_total", def.Len()),
	)

	if err := a.handleEvent(c, Event{Kind: EventWorkoutLoaded, Workout: def}); err != nil {
		return err
	}

	// The raw upload is retired along with the old screen to keep the chat
	// showing a single live message.
	if chat := c.Chat(); chat != nil {
		if err := tghelpers.DeleteAsync(c, chat.ID, msg.ID); err != nil {
			logger.Warn(ctx, "bot", "upload.cleanup.failed",
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}
	return nil
}

func (a *App) downloadWorkout(c tele.Context, doc *tele.Document) (*workout.Definition, error) {
	rc, err := c.Bot().File(&doc.File)
	if err != nil {
		return nil, fmt.Errorf("download workout file: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, maxWorkoutFileSize))
	if err != nil {
		return nil, fmt.Errorf("read workout file: %w", err)
	}
	return workout.Parse(raw)
}

// handleStats reports the stored session count. Admin only.
func (a *App) handleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	n, err := a.store.Count(ctx)
	if err != nil {
		logger.Error(ctx, "bot", "stats.failed",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return err
	}
	return tghelpers.SendHTML(c, fmt.Sprintf("Всего пользователей: <b>%d</b>", n))
}

// fsmAdapter routes document uploads to the upload handler while a chat is
// waiting for a workout file.
type fsmAdapter struct{ app *App }

func (f fsmAdapter) InProgress(userID int64) bool {
	ctx := logger.Background()
	sess, err := f.app.store.Load(ctx, userID)
	if err != nil || sess == nil {
		return false
	}
	return sess.State == session.StateAwaitingWorkoutFile
}

func (f fsmAdapter) ManagerHandler(c tele.Context) error {
	if c.Message() != nil && c.Message().Document != nil {
		return f.app.handleUpload(c)
	}
	return nil
}
