package grid

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/propgrid/internal/refprop"
)

const traceRule = "************************************"

// tracer writes the per-cell debug trace.
type tracer struct {
	w     io.Writer
	fluid string
	mode  FluidMode
}

func newTracer(w io.Writer, fluid string, mode FluidMode) *tracer {
	return &tracer{w: w, fluid: fluid, mode: mode}
}

// line writes one trace line without trailing blanks.
func (t *tracer) line(format string, args ...any) {
	fmt.Fprintln(t.w, strings.TrimRight(fmt.Sprintf(format, args...), " "))
}

// cell writes the block for cell (r, c) after its evaluation.
func (t *tracer) cell(r, c int, call *refprop.Call) {
	t.line("")
	t.line(traceRule)
	t.line("Value %d.%d", r+1, c+1)
	t.line("Error             = (%d) %s", call.Ierr, call.Herr.String())
	t.line("Fluid(s)          = %s", t.fluid)
	t.line("Input properties  = %s = (%f, %f)", call.In.String(), call.A, call.B)
	t.line("Output properties = %s", call.Out.String())
	t.line("Output values     = %f %s", call.Output[0], call.OutUnits.String())

	if t.mode == SingleFluid {
		return
	}
	n := call.Z.Components()
	names := componentNames(t.fluid, n)
	for i := 0; i < n; i++ {
		t.line("")
		t.line("For: %s", names[i])
		t.line("Liquid Phase Comp = %f", call.X[i])
		t.line("Vapor  Phase Comp = %f", call.Y[i])
		if call.X3[i] > refprop.CompositionEpsilon {
			t.line("2nd Liquid Phase  = %f", call.X3[i])
		}
	}
}

// close writes the closing rule after the last cell.
func (t *tracer) close() {
	t.line("")
	t.line(traceRule)
}
