package store

import (
	"context"
	"fmt"
	"time"
)

// WriteRun inserts run and returns its assigned seq.
// Uses ON CONFLICT(id) DO NOTHING; rewriting an existing ID returns its
// stored seq.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: empty id")
	}
	if run.Status == StatusOK && run.Result == nil {
		return 0, fmt.Errorf("write run %s: ok run without result", run.ID)
	}
	if run.Status == StatusFailed && run.Result != nil {
		return 0, fmt.Errorf("write run %s: failed run with result", run.ID)
	}

	reqJSON, err := marshalRequest(run.Request)
	if err != nil {
		return 0, fmt.Errorf("write run %s: %w", run.ID, err)
	}
	resJSON, err := marshalResult(run.Result)
	if err != nil {
		return 0, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	var rows, cols int
	if run.Result != nil {
		rows, cols = run.Result.Rows, run.Result.Cols
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, created_at, source, request, status, error_kind, error_message, n_rows, n_cols, result)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Source,
		reqJSON,
		string(run.Status),
		run.ErrorKind,
		run.ErrorMessage,
		rows,
		cols,
		resJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	var seq int64
	if err := s.db.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run %s: read seq: %w", run.ID, err)
	}
	return seq, nil
}
