package bot

import (
	"fmt"
	"sync"

	"github.com/NeverDieOne/train-bot/core/logger"
	tghelpers "github.com/NeverDieOne/train-bot/core/telegram/helpers"
	"github.com/NeverDieOne/train-bot/internal/session"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Renderer keeps at most one live bot-authored message per chat. Every render
// produces the new screen first and retires the previous message afterwards,
// either by editing it in place or by deleting it once the replacement is up.
//
// The renderer also remembers the last message it produced per user: a failed
// session save leaves the stored handle pointing at an already retired
// message, and the remembered id lets the next render retire that orphan.
type Renderer struct {
	mu   sync.Mutex
	sent map[int64]int
}

// NewRenderer creates a renderer with empty per-user bookkeeping.
func NewRenderer() *Renderer {
	return &Renderer{sent: make(map[int64]int)}
}

func (r *Renderer) lastSent(userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[userID]
}

func (r *Renderer) remember(userID int64, msgID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent[userID] = msgID
}

type screenContent struct {
	text   string
	markup *tele.ReplyMarkup
	photo  string // non-empty for step cards
}

func buildContent(out Outcome) screenContent {
	switch out.Screen {
	case ScreenMenu:
		return screenContent{text: textGreeting, markup: menuMarkup()}
	case ScreenUploadPrompt:
		return screenContent{text: textUploadPrompt, markup: backMarkup()}
	case ScreenUploadOK:
		return screenContent{text: textUploadOK, markup: backMarkup()}
	case ScreenUploadFailed:
		return screenContent{text: textUploadFailed, markup: backMarkup()}
	case ScreenNoWorkout:
		return screenContent{text: textNoWorkout, markup: backMarkup()}
	case ScreenFinished:
		return screenContent{text: textFinished, markup: backMarkup()}
	case ScreenStep:
		return screenContent{
			text:   stepCaption(out.Step),
			markup: stepMarkup(),
			photo:  out.Step.Image,
		}
	}
	return screenContent{}
}

// retireTargets selects which message ids must be deleted after a render that
// produced keepID. Zero ids and duplicates are dropped.
func retireTargets(keepID int, ids ...int) []int {
	seen := map[int]struct{}{keepID: {}}
	var out []int
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Render shows the screen for the outcome and updates the session's live
// message handle.
func (r *Renderer) Render(c tele.Context, sess *session.Session, out Outcome) error {
	if out.Screen == ScreenNone {
		return nil
	}
	content := buildContent(out)

	cb := c.Callback()
	tappedID := 0
	if cb != nil && cb.Message != nil {
		tappedID = cb.Message.ID
	}

	// A button tap on the live text screen is the cheap path: edit in place.
	if content.photo == "" && tappedID != 0 && tappedID == sess.ScreenMessageID {
		err := c.Edit(content.text, &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: content.markup})
		if err == nil {
			r.deleteAll(c, sess.ChatID, retireTargets(sess.ScreenMessageID, r.lastSent(sess.UserID)))
			r.remember(sess.UserID, sess.ScreenMessageID)
			return nil
		}
		ctx := tghelpers.BuildContext(c)
		logger.Warn(ctx, "bot", "screen.edit_failed",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		// Fall through to send-new-then-delete-old.
	}

	msg, err := r.send(c, sess.ChatID, content)
	if err != nil {
		return fmt.Errorf("render screen: %w", err)
	}

	// Retire the previous screen. The tapped message may differ from the
	// stored handle (e.g. a tap on an older reminder), and both may differ
	// from the last message actually sent, so retire all of them.
	r.deleteAll(c, sess.ChatID, retireTargets(msg.ID, sess.ScreenMessageID, tappedID, r.lastSent(sess.UserID)))

	sess.ScreenMessageID = msg.ID
	r.remember(sess.UserID, msg.ID)
	return nil
}

func (r *Renderer) deleteAll(c tele.Context, chatID int64, ids []int) {
	for _, id := range ids {
		if err := tghelpers.DeleteAsync(c, chatID, id); err != nil {
			ctx := tghelpers.BuildContext(c)
			logger.Warn(ctx, "bot", "screen.retire_failed",
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		}
	}
}

func (r *Renderer) send(c tele.Context, chatID int64, content screenContent) (*tele.Message, error) {
	recipient := tele.ChatID(chatID)
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML, ReplyMarkup: content.markup}

	if content.photo != "" {
		photo := &tele.Photo{File: tele.FromURL(content.photo), Caption: content.text}
		return c.Bot().Send(recipient, photo, opts)
	}
	return c.Bot().Send(recipient, content.text, opts)
}
