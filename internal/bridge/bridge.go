// Package bridge is the host call boundary: positional host arguments in,
// one M×N host matrix out.
package bridge

import (
	"github.com/roach88/propgrid/internal/args"
	"github.com/roach88/propgrid/internal/grid"
	"github.com/roach88/propgrid/internal/hostarg"
)

// Call adapts in, evaluates the grid and returns the single output value.
// Errors are *callerr.Error; no output is returned alongside an error.
func Call(ev *grid.Evaluator, nout int, in []hostarg.Value) ([]hostarg.Value, error) {
	out, err := Invoke(ev, nout, in)
	if err != nil {
		return nil, err
	}
	return out.Values, nil
}

// Outcome is a call together with the request it ran, for callers that
// record history.
type Outcome struct {
	// Request is nil when the arguments were rejected.
	Request *grid.Request
	Result  *grid.Result
	Values  []hostarg.Value
}

// Invoke is Call keeping the intermediate request and result. On error
// Outcome.Request is set if adaptation succeeded; Result and Values are nil.
func Invoke(ev *grid.Evaluator, nout int, in []hostarg.Value) (Outcome, error) {
	call, err := args.Adapt(nout, in)
	if err != nil {
		return Outcome{}, err
	}

	req := Request(call)
	res, err := ev.Evaluate(req)
	if err != nil {
		return Outcome{Request: &req}, err
	}
	return Outcome{
		Request: &req,
		Result:  res,
		Values:  []hostarg.Value{ToHost(res)},
	}, nil
}

// Request converts an adapted call into a grid request.
func Request(call *args.Call) grid.Request {
	return grid.Request{
		Property:    call.PropReq,
		Inputs:      call.SpecPair,
		Values1:     call.Values1,
		Values2:     call.Values2,
		Fluid:       call.Fluid,
		Basis:       grid.Basis(call.Mass),
		Composition: call.Composition,
		Units:       call.Units,
		EnginePath:  call.Path,
		Debug:       call.Debug,
	}
}

// ToHost converts a grid result into a host matrix. The layouts match, so
// the data is copied as is.
func ToHost(res *grid.Result) hostarg.Double {
	data := make([]float64, len(res.Data))
	copy(data, res.Data)
	return hostarg.NewMatrix(res.Rows, res.Cols, data)
}
