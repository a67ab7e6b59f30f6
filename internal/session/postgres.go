package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/NeverDieOne/train-bot/internal/progress"
	"github.com/NeverDieOne/train-bot/internal/workout"
)

// PostgresStore persists sessions in the sessions table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type sessionRow struct {
	UserID          int64         `db:"user_id"`
	ChatID          int64         `db:"chat_id"`
	State           string        `db:"state"`
	ScreenMessageID int64         `db:"screen_message_id"`
	Workout         []byte        `db:"workout"`
	CurrentStep     int           `db:"current_step"`
	LastCompleted   progress.Date `db:"last_completed"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

// Load fetches a session by user id, returning (nil, nil) when absent.
func (s *PostgresStore) Load(ctx context.Context, userID int64) (*Session, error) {
	const q = `
		SELECT user_id, chat_id, state, screen_message_id, workout, current_step, last_completed, updated_at
		FROM sessions
		WHERE user_id = $1`

	var row sessionRow
	if err := s.db.GetContext(ctx, &row, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session %d: %w", userID, err)
	}

	sess := &Session{
		UserID:          row.UserID,
		ChatID:          row.ChatID,
		State:           State(row.State),
		ScreenMessageID: int(row.ScreenMessageID),
		Progress: progress.Progress{
			CurrentStep:   row.CurrentStep,
			LastCompleted: row.LastCompleted,
		},
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Workout) > 0 {
		var def workout.Definition
		if err := json.Unmarshal(row.Workout, &def); err != nil {
			return nil, fmt.Errorf("load session %d: decode workout: %w", userID, err)
		}
		sess.Workout = &def
	}
	return sess, nil
}

// Save upserts the whole session in a single statement.
func (s *PostgresStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil {
		return fmt.Errorf("save session: nil session")
	}
	const q = `
		INSERT INTO sessions (user_id, chat_id, state, screen_message_id, workout, current_step, last_completed, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			state = EXCLUDED.state,
			screen_message_id = EXCLUDED.screen_message_id,
			workout = EXCLUDED.workout,
			current_step = EXCLUDED.current_step,
			last_completed = EXCLUDED.last_completed,
			updated_at = now()`

	_, err := s.db.ExecContext(ctx, q,
		sess.UserID,
		sess.ChatID,
		string(sess.State),
		int64(sess.ScreenMessageID),
		sess.Workout,
		sess.Progress.CurrentStep,
		sess.Progress.LastCompleted,
	)
	if err != nil {
		return fmt.Errorf("save session %d: %w", sess.UserID, err)
	}
	return nil
}

// Count reports the number of stored sessions.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM sessions`); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

// DueForReminder lists chats with a workout loaded that have not completed
// the routine today.
func (s *PostgresStore) DueForReminder(ctx context.Context, today progress.Date) ([]Recipient, error) {
	const q = `
		SELECT user_id, chat_id
		FROM sessions
		WHERE workout IS NOT NULL
		  AND (last_completed IS NULL OR last_completed < $1)
		ORDER BY user_id`

	todayVal, err := today.Value()
	if err != nil {
		return nil, fmt.Errorf("reminder candidates: %w", err)
	}

	var out []Recipient
	if err := s.db.SelectContext(ctx, &out, q, todayVal); err != nil {
		return nil, fmt.Errorf("reminder candidates: %w", err)
	}
	return out, nil
}
