package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/goccy/go-json"

	"github.com/thebtf/stagewhisper/pkg/models"
)

// DebriefStore archives completed-session debriefs.
type DebriefStore struct {
	store *Store
}

// NewDebriefStore creates a debrief store.
func NewDebriefStore(store *Store) *DebriefStore {
	return &DebriefStore{store: store}
}

// Save archives a debrief. Saving the same session twice replaces the earlier
// row; end-of-session is the only writer so last-write-wins is safe.
func (s *DebriefStore) Save(ctx context.Context, d models.Debrief) error {
	contextJSON, err := json.Marshal(d.Context)
	if err != nil {
		return err
	}
	historyJSON, err := json.Marshal(d.History)
	if err != nil {
		return err
	}

	const query = `
		INSERT OR REPLACE INTO debriefs
		(session_id, persona, goal, event_count, context_json, history_json, started_at_epoch, ended_at_epoch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.store.db.ExecContext(ctx, query,
		d.SessionID, d.Context.Persona, d.Context.Goal, d.EventCount,
		string(contextJSON), string(historyJSON),
		d.StartedAt.UnixMilli(), d.EndedAt.UnixMilli(),
	)
	return err
}

// Get loads an archived debrief by session ID. Returns nil with no error when
// the session was never archived.
func (s *DebriefStore) Get(ctx context.Context, sessionID string) (*models.Debrief, error) {
	const query = `
		SELECT session_id, event_count, context_json, history_json, started_at_epoch, ended_at_epoch
		FROM debriefs
		WHERE session_id = ?
		LIMIT 1
	`

	var (
		d                      models.Debrief
		contextJSON, histJSON  string
		startEpoch, endedEpoch int64
	)
	err := s.store.db.QueryRowContext(ctx, query, sessionID).Scan(
		&d.SessionID, &d.EventCount, &contextJSON, &histJSON, &startEpoch, &endedEpoch,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(contextJSON), &d.Context); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(histJSON), &d.History); err != nil {
		return nil, err
	}
	d.StartedAt = time.UnixMilli(startEpoch)
	d.EndedAt = time.UnixMilli(endedEpoch)
	return &d, nil
}

// RecentSessions lists archived sessions newest first for the debrief index.
func (s *DebriefStore) RecentSessions(ctx context.Context, limit int) ([]models.Debrief, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT session_id, persona, goal, event_count, started_at_epoch, ended_at_epoch
		FROM debriefs
		ORDER BY ended_at_epoch DESC
		LIMIT ?
	`

	rows, err := s.store.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Debrief
	for rows.Next() {
		var (
			d                      models.Debrief
			startEpoch, endedEpoch int64
		)
		if err := rows.Scan(&d.SessionID, &d.Context.Persona, &d.Context.Goal,
			&d.EventCount, &startEpoch, &endedEpoch); err != nil {
			return nil, err
		}
		d.StartedAt = time.UnixMilli(startEpoch)
		d.EndedAt = time.UnixMilli(endedEpoch)
		out = append(out, d)
	}
	return out, rows.Err()
}
