// Package server exposes property grid evaluation over a websocket.
//
// Clients connect to /ws and exchange JSON messages {type, id, content}.
// Each connection gets its own hub: a reader that decodes requests and a
// writer that sends replies in order. Requests on one connection run one at
// a time; requests on different connections still serialize on the engine
// session lock.
//
// Request types:
//
//	call      content is the positional host argument list, exactly as the
//	          host would pass it (see hostarg.DecodeJSON)
//	evaluate  content is one job request, axis ranges allowed
//
// Reply types:
//
//	result    {run_id, name, value, units}
//	error     {kind, class, id, message}
//
// The reply echoes the request's id. When a store is configured every
// request that reached the evaluator is recorded as a run.
package server
