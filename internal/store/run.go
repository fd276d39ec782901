package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/propgrid/internal/callerr"
	"github.com/roach88/propgrid/internal/grid"
)

// ErrRunNotFound is returned by ReadRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// Status is the outcome of a run.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Run is one recorded evaluation.
type Run struct {
	ID        string
	Seq       int64 // assigned by WriteRun
	CreatedAt time.Time

	// Source names the surface that ran it: "eval", "batch" or "ws".
	Source string

	Request grid.Request
	Status  Status

	ErrorKind    string
	ErrorMessage string

	// Result is nil for failed runs.
	Result *grid.Result
}

// NewRunID returns a time-ordered UUIDv7.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// NewRun builds the record for one evaluation outcome. A non-nil err marks
// the run failed and drops any result.
func NewRun(source string, req grid.Request, res *grid.Result, err error, now time.Time) Run {
	run := Run{
		ID:        NewRunID(),
		CreatedAt: now.UTC(),
		Source:    source,
		Request:   req,
		Status:    StatusOK,
		Result:    res,
	}
	if err != nil {
		run.Status = StatusFailed
		run.ErrorKind = string(callerr.KindOf(err))
		run.ErrorMessage = err.Error()
		run.Result = nil
	}
	return run
}

// marshalJSON encodes v without HTML escaping.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func marshalRequest(req grid.Request) (string, error) {
	s, err := marshalJSON(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	return s, nil
}

func marshalResult(res *grid.Result) (any, error) {
	if res == nil {
		return nil, nil
	}
	s, err := marshalJSON(res)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return s, nil
}
