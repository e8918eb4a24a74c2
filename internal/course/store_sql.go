package course

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, c Course) error {
	qj, err := json.Marshal(c.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO courses (id,title,subject,audience,questions_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, subject=EXCLUDED.subject,
		  audience=EXCLUDED.audience, questions_json=EXCLUDED.questions_json`,
		c.ID, c.Title, c.Subject, c.Audience, string(qj), time.Now().Unix())
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Course, error) {
	c, err := s.GetAdmin(ctx, id)
	if err != nil {
		return Course{}, err
	}
	return c.LearnerView(), nil
}

func (s *SQLStore) GetAdmin(ctx context.Context, id string) (Course, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,subject,audience,questions_json,created_at FROM courses WHERE id=$1`, id)
	var c Course
	var qjson string
	if err := row.Scan(&c.ID, &c.Title, &c.Subject, &c.Audience, &qjson, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &c.Questions); err != nil {
		return Course{}, err
	}
	return c, nil
}

func (s *SQLStore) List(ctx context.Context, opts ListOpts) ([]Summary, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT id,title,subject,audience,questions_json FROM courses`)
	where := []string{}
	if opts.Subject != "" {
		args = append(args, opts.Subject)
		where = append(where, "subject=$"+itoa(len(args)))
	}
	if opts.Q != "" {
		args = append(args, "%"+strings.ToLower(opts.Q)+"%")
		where = append(where, "LOWER(title) LIKE $"+itoa(len(args)))
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	args = append(args, limit)
	sb.WriteString(" ORDER BY title LIMIT $" + itoa(len(args)))
	args = append(args, opts.Offset)
	sb.WriteString(" OFFSET $" + itoa(len(args)))

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var sm Summary
		var qjson string
		if err := rows.Scan(&sm.ID, &sm.Title, &sm.Subject, &sm.Audience, &qjson); err != nil {
			return nil, err
		}
		var qs []Question
		if err := json.Unmarshal([]byte(qjson), &qs); err == nil {
			sm.Questions = len(qs)
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func itoa(n int) string { return strconv.Itoa(n) }
