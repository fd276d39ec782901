package grid

import (
	"github.com/roach88/propgrid/internal/callerr"
	"github.com/roach88/propgrid/internal/refprop"
)

// Basis selects the composition basis of inputs and outputs.
type Basis int

const (
	Molar Basis = 0
	Mass  Basis = 1
)

// String returns "molar" or "mass".
func (b Basis) String() string {
	if b == Mass {
		return "mass"
	}
	return "molar"
}

// Request describes one grid evaluation.
type Request struct {
	// Property is the engine's output property code, e.g. "D".
	Property string `json:"property"`

	// Inputs is the independent-variable pair code, e.g. "TP".
	Inputs string `json:"inputs"`

	// Values1 and Values2 are the two axes. The grid has
	// len(Values1) rows and len(Values2) columns.
	Values1 []float64 `json:"values1"`
	Values2 []float64 `json:"values2"`

	// Fluid is a fluid name, a ';'-separated list or a ".mix" file name.
	Fluid string `json:"fluid"`

	Basis       Basis               `json:"basis"`
	Composition refprop.Composition `json:"composition"`

	// Units is the unit system name resolved through the engine.
	Units string `json:"units"`

	// EnginePath is the engine's install directory.
	EnginePath string `json:"engine_path"`

	Debug bool `json:"debug,omitempty"`
}

// Shape returns the grid dimensions (M, N).
func (r *Request) Shape() (int, int) {
	return len(r.Values1), len(r.Values2)
}

func (r *Request) validate() error {
	if len(r.Values1) == 0 {
		return callerr.ForArg(callerr.KindOutOfSet, "value1",
			"input variable value1 must hold at least one value")
	}
	if len(r.Values2) == 0 {
		return callerr.ForArg(callerr.KindOutOfSet, "value2",
			"input variable value2 must hold at least one value")
	}
	if r.Basis != Molar && r.Basis != Mass {
		return callerr.ForArg(callerr.KindOutOfSet, "massOrMole",
			"massOrMole input of %d is invalid, acceptable values are 0 and 1", int(r.Basis))
	}
	for _, f := range []struct {
		name string
		s    string
		size int
	}{
		{"propReq", r.Property, refprop.StringLen},
		{"spec", r.Inputs, refprop.StringLen},
		{"fluid", r.Fluid, refprop.FluidLen},
		{"units", r.Units, refprop.StringLen},
		{"path", r.EnginePath, refprop.StringLen},
	} {
		if !refprop.Fits(f.size, f.s) {
			return callerr.ForArg(callerr.KindOutOfSet, f.name,
				"input variable %s is %d bytes long, at most %d are supported", f.name, len(f.s), f.size-1)
		}
	}
	return nil
}

// Result is an M×N grid of property values.
type Result struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`

	// Data holds the values column-major: cell (r, c) is Data[r+c*Rows].
	Data []float64 `json:"data"`

	// Units and UnitCode describe the values as reported by the engine.
	Units    string `json:"units,omitempty"`
	UnitCode int    `json:"unit_code,omitempty"`
}

func newResult(rows, cols int) *Result {
	return &Result{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns cell (r, c).
func (r *Result) At(row, col int) float64 {
	return r.Data[row+col*r.Rows]
}

func (r *Result) set(row, col int, v float64) {
	r.Data[row+col*r.Rows] = v
}
