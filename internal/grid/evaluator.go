package grid

import (
	"io"
	"log/slog"
	"os"

	"github.com/roach88/propgrid/internal/callerr"
	"github.com/roach88/propgrid/internal/refprop"
)

// region tags where in the visiting order a cell failed. Diagnostic only.
type region int

const (
	regionWarmup   region = 1
	regionFirstRow region = 2
	regionGrid     region = 3
)

// Evaluator runs grid evaluations against an engine loader.
//
// Thread-safety: Evaluate is safe for concurrent use; calls serialize on
// the process-wide session lock.
type Evaluator struct {
	loader  refprop.Loader
	library string
	logger  *slog.Logger
	trace   io.Writer
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLibrary sets the engine module file name.
//
// Default: refprop.DefaultLibrary()
func WithLibrary(name string) Option {
	return func(e *Evaluator) {
		if name != "" {
			e.library = name
		}
	}
}

// WithLogger sets the logger for session and classification records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTrace sets where debug traces are written.
//
// Default: os.Stdout
func WithTrace(w io.Writer) Option {
	return func(e *Evaluator) {
		if w != nil {
			e.trace = w
		}
	}
}

// NewEvaluator creates an Evaluator loading the engine through loader.
func NewEvaluator(loader refprop.Loader, opts ...Option) *Evaluator {
	e := &Evaluator{
		loader:  loader,
		library: refprop.DefaultLibrary(),
		logger:  slog.Default(),
		trace:   os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Library returns the engine module file name in use.
func (e *Evaluator) Library() string {
	return e.library
}

// Evaluate computes req.Property at every (Values1[r], Values2[c]) pair.
//
// The returned error is always a *callerr.Error; on error the result is nil.
func (e *Evaluator) Evaluate(req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	s, err := openSession(e.loader, req.EnginePath, e.library, e.logger)
	if err != nil {
		return nil, err
	}
	defer s.close()

	mode := ClassifyFluid(req.Fluid)
	z := req.Composition
	if err := s.setFluid(req.Fluid, mode, &z); err != nil {
		return nil, err
	}

	units, err := s.resolveUnits(req.Units)
	if err != nil {
		return nil, err
	}

	call := refprop.NewCall()
	call.In = refprop.NewBuffer(refprop.StringLen, req.Inputs)
	call.Out = refprop.NewBuffer(refprop.StringLen, req.Property)
	call.Units = units
	call.Mass = int(req.Basis)
	call.Mixture = mode.MixtureFlag()

	rows, cols := req.Shape()
	res := newResult(rows, cols)

	var tr *tracer
	if req.Debug {
		tr = newTracer(e.trace, req.Fluid, mode)
	}

	eval := func(r, c int, where region) error {
		call.ResetOutputs()
		call.A = req.Values1[r]
		call.B = req.Values2[c]
		call.Z = z

		s.evaluate(call)
		if tr != nil {
			tr.cell(r, c, call)
		}
		if call.Ierr != 0 {
			herr := call.Herr.String()
			return callerr.Engine(callerr.KindEvaluation, call.Ierr, herr,
				"property call %d failed at cell %d.%d (%s): error %d -> %s",
				int(where), r+1, c+1, req.Property, call.Ierr, herr)
		}

		res.set(r, c, call.Output[0])
		res.Units = call.OutUnits.String()
		res.UnitCode = call.UnitCode
		return nil
	}

	if err := eval(0, 0, regionWarmup); err != nil {
		return nil, err
	}
	for c := 1; c < cols; c++ {
		if err := eval(0, c, regionFirstRow); err != nil {
			return nil, err
		}
	}
	for r := 1; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if err := eval(r, c, regionGrid); err != nil {
				return nil, err
			}
		}
	}

	if tr != nil {
		tr.close()
	}
	e.logger.Debug("grid evaluated",
		"property", req.Property,
		"inputs", req.Inputs,
		"rows", rows,
		"cols", cols,
		"fluid_mode", mode.String())
	return res, nil
}
