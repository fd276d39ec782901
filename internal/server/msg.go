package server

import (
	"encoding/json"
	"errors"

	"github.com/roach88/propgrid/internal/callerr"
	"github.com/roach88/propgrid/internal/hostarg"
)

// Message types.
const (
	TypeCall     = "call"
	TypeEvaluate = "evaluate"
	TypeResult   = "result"
	TypeError    = "error"
)

// Error kinds for failures outside the call itself.
const (
	KindBadMessage = "BAD_MESSAGE"
	KindBadJob     = "BAD_JOB"
)

// Msg is one websocket message in either direction.
type Msg struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Content json.RawMessage `json:"content,omitempty"`
}

// ResultContent is the content of a result reply.
type ResultContent struct {
	RunID string         `json:"run_id,omitempty"`
	Name  string         `json:"name,omitempty"`
	Value hostarg.Double `json:"value"`
	Units string         `json:"units,omitempty"`
}

// ErrorContent is the content of an error reply.
type ErrorContent struct {
	Kind    string `json:"kind"`
	Class   string `json:"class"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

func errorContent(err error) ErrorContent {
	var ce *callerr.Error
	if errors.As(err, &ce) {
		return ErrorContent{
			Kind:    string(ce.Kind),
			Class:   ce.Class(),
			ID:      ce.ID(),
			Message: ce.Message,
		}
	}
	return ErrorContent{Kind: "ERROR", Class: "Error", Message: err.Error()}
}

func badMessage(kind, message string) ErrorContent {
	class := "MessageError"
	if kind == KindBadJob {
		class = "JobError"
	}
	return ErrorContent{Kind: kind, Class: class, Message: message}
}

func reply(id, typ string, content any) Msg {
	data, err := json.Marshal(content)
	if err != nil {
		data, _ = json.Marshal(badMessage(KindBadMessage, err.Error()))
		typ = TypeError
	}
	return Msg{Type: typ, ID: id, Content: data}
}
