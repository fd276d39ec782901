package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/propgrid/internal/grid"
)

const runColumns = `id, seq, created_at, source, request, status, error_kind, error_message, result`

// ReadRun returns the run with the given ID, or ErrRunNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or less
// returns every run; an empty status matches both outcomes.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, limit int, status Status) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY seq DESC, id COLLATE BINARY ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run       Run
		createdAt string
		reqJSON   string
		status    string
		resJSON   sql.NullString
	)
	if err := sc.Scan(&run.ID, &run.Seq, &createdAt, &run.Source, &reqJSON, &status,
		&run.ErrorKind, &run.ErrorMessage, &resJSON); err != nil {
		return Run{}, err
	}
	run.Status = Status(status)

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at of %s: %w", run.ID, err)
	}
	run.CreatedAt = ts

	if err := json.Unmarshal([]byte(reqJSON), &run.Request); err != nil {
		return Run{}, fmt.Errorf("unmarshal request of %s: %w", run.ID, err)
	}
	if resJSON.Valid {
		var res grid.Result
		if err := json.Unmarshal([]byte(resJSON.String), &res); err != nil {
			return Run{}, fmt.Errorf("unmarshal result of %s: %w", run.ID, err)
		}
		run.Result = &res
	}
	return run, nil
}
