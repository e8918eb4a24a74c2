package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLStore keeps one JSON row per user in user_tracking. Update wraps the
// read-modify-write in a single transaction so it cannot interleave with
// unrelated mutations of the same row; two overlapping completions for one
// user remain a last-writer-wins race (accepted limitation).
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Get(ctx context.Context, userID string) (UserTracking, error) {
	row := s.db.QueryRowContext(ctx, `SELECT data FROM user_tracking WHERE user_id=$1`, userID)
	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserTracking{}, ErrNotFound
		}
		return UserTracking{}, err
	}
	var rec UserTracking
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return UserTracking{}, err
	}
	return rec, nil
}

func (s *SQLStore) Update(ctx context.Context, userID string, fn func(rec *UserTracking, exists bool) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var rec UserTracking
	exists := true
	var data string
	if err = tx.QueryRowContext(ctx, `SELECT data FROM user_tracking WHERE user_id=$1`, userID).Scan(&data); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		exists = false
		err = nil
	} else if err = json.Unmarshal([]byte(data), &rec); err != nil {
		return err
	}

	if err = fn(&rec, exists); err != nil {
		return err
	}
	rec.UserID = userID

	var buf []byte
	if buf, err = json.Marshal(rec); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO user_tracking (user_id, data, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`,
		userID, string(buf), time.Now().Unix()); err != nil {
		return err
	}
	return tx.Commit()
}
