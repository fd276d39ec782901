package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gorilla/websocket"

	"github.com/roach88/propgrid/internal/args"
	"github.com/roach88/propgrid/internal/bridge"
	"github.com/roach88/propgrid/internal/grid"
	"github.com/roach88/propgrid/internal/hostarg"
	"github.com/roach88/propgrid/internal/job"
	"github.com/roach88/propgrid/internal/store"
)

// hub serves one websocket connection.
type hub struct {
	s      *Server
	conn   *websocket.Conn
	logger *slog.Logger

	// request
	msg chan request
	// response
	out chan Msg
}

// request is one frame read from the peer. err is set when the frame did
// not decode as a Msg.
type request struct {
	msg Msg
	err error
}

func newHub(s *Server, conn *websocket.Conn) *hub {
	return &hub{
		s:      s,
		conn:   conn,
		logger: s.logger.With("remote", conn.RemoteAddr().String()),
		msg:    make(chan request, 10),
		out:    make(chan Msg, 10),
	}
}

// run reads until the connection fails, then drains the workers.
// Frames that fail to decode are answered in order and do not end the
// connection.
func (h *hub) run() {
	handled := make(chan struct{})
	written := make(chan struct{})
	go func() {
		defer close(handled)
		h.handleRequests()
	}()
	go func() {
		defer close(written)
		h.handleResponses()
	}()

	for {
		_, data, err := h.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			break
		}
		var req request
		if err := json.Unmarshal(data, &req.msg); err != nil {
			req.err = err
		}
		h.msg <- req
	}

	close(h.msg)
	<-handled
	close(h.out)
	<-written
}

func (h *hub) handleRequests() {
	for req := range h.msg {
		if req.err != nil {
			h.logger.Debug("malformed websocket message", "error", req.err)
			h.out <- reply("", TypeError, badMessage(KindBadMessage, "malformed message: "+req.err.Error()))
			continue
		}
		h.out <- h.handle(req.msg)
	}
}

func (h *hub) handleResponses() {
	for reply := range h.out {
		if err := h.conn.WriteJSON(&reply); err != nil {
			h.logger.Warn("websocket write failed", "error", err)
		}
	}
}

// handle dispatches one request and returns its reply.
func (h *hub) handle(msg Msg) Msg {
	h.logger.Debug("websocket request", "type", msg.Type, "id", msg.ID)

	switch msg.Type {
	case TypeCall:
		return h.handleCall(msg)
	case TypeEvaluate:
		return h.handleEvaluate(msg)
	default:
		return reply(msg.ID, TypeError, badMessage(KindBadMessage, fmt.Sprintf("unknown message type %q", msg.Type)))
	}
}

func (h *hub) handleCall(msg Msg) Msg {
	in, err := hostarg.DecodeJSON(msg.Content)
	if err != nil {
		return reply(msg.ID, TypeError, badMessage(KindBadMessage, err.Error()))
	}

	out, err := bridge.Invoke(h.s.ev, args.ExpectedOutputs, in)
	runID := ""
	if out.Request != nil {
		runID = h.record(*out.Request, out.Result, err)
	}
	if err != nil {
		content := errorContent(err)
		content.RunID = runID
		return reply(msg.ID, TypeError, content)
	}
	return reply(msg.ID, TypeResult, ResultContent{
		RunID: runID,
		Value: bridge.ToHost(out.Result),
		Units: out.Result.Units,
	})
}

func (h *hub) handleEvaluate(msg Msg) Msg {
	if len(msg.Content) == 0 {
		return reply(msg.ID, TypeError, badMessage(KindBadJob, "evaluate needs a request as content"))
	}
	// A single request is validated as a one-request job.
	doc := append(append([]byte(`{"requests":[`), msg.Content...), ']', '}')
	j, err := job.ParseCUE(doc, "message")
	if err != nil {
		return reply(msg.ID, TypeError, badMessage(KindBadJob, err.Error()))
	}
	items, err := j.Resolve(h.s.fallback)
	if err != nil {
		return reply(msg.ID, TypeError, badMessage(KindBadJob, err.Error()))
	}
	item := items[0]

	res, err := h.s.ev.Evaluate(item.Request)
	runID := h.record(item.Request, res, err)
	if err != nil {
		content := errorContent(err)
		content.RunID = runID
		return reply(msg.ID, TypeError, content)
	}
	return reply(msg.ID, TypeResult, ResultContent{
		RunID: runID,
		Name:  item.Name,
		Value: bridge.ToHost(res),
		Units: res.Units,
	})
}

// record stores the run when a store is configured and returns its ID.
func (h *hub) record(req grid.Request, res *grid.Result, err error) string {
	if h.s.store == nil {
		return ""
	}
	run := store.NewRun("ws", req, res, err, h.s.now())
	if _, werr := h.s.store.WriteRun(context.Background(), run); werr != nil {
		h.logger.Warn("failed to record run", "run_id", run.ID, "error", werr)
		return ""
	}
	return run.ID
}
