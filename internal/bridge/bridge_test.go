package bridge

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propgrid/internal/callerr"
	"github.com/roach88/propgrid/internal/grid"
	"github.com/roach88/propgrid/internal/hostarg"
	"github.com/roach88/propgrid/internal/testutil"
)

func newEvaluator(lib *testutil.FakeLibrary) (*grid.Evaluator, *testutil.FakeLoader) {
	loader := testutil.NewFakeLoader(lib)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return grid.NewEvaluator(loader, grid.WithLibrary("REFPRP64.DLL"), grid.WithLogger(logger)), loader
}

func hostArgs(values1, values2 hostarg.Double) []hostarg.Value {
	return []hostarg.Value{
		hostarg.Char("D"),
		hostarg.Char("TP"),
		values1,
		values2,
		hostarg.Char("WATER"),
		hostarg.NewScalar(0),
		hostarg.NewRow(1.0),
		hostarg.Char("SI"),
		hostarg.Char(`C:\Program Files\REFPROP`),
		hostarg.NewScalar(0),
	}
}

func TestCall_WaterDensity(t *testing.T) {
	lib := testutil.NewFakeLibrary()
	lib.Property = func(out, in string, a, b float64) float64 { return 996.5 }
	ev, _ := newEvaluator(lib)

	out, err := Call(ev, 1, hostArgs(hostarg.NewScalar(300), hostarg.NewScalar(101325)))
	require.NoError(t, err)
	require.Len(t, out, 1)

	m, ok := out[0].(hostarg.Double)
	require.True(t, ok)
	assert.Equal(t, 1, m.Rows)
	assert.Equal(t, 1, m.Cols)
	assert.Equal(t, 996.5, m.Scalar())
	assert.Len(t, lib.Calls, 1)
}

func TestCall_GridShape(t *testing.T) {
	lib := testutil.NewFakeLibrary()
	lib.Property = func(out, in string, a, b float64) float64 { return a*1000 + b }
	ev, _ := newEvaluator(lib)

	out, err := Call(ev, 1, hostArgs(hostarg.NewRow(300, 310, 320), hostarg.NewRow(100, 200)))
	require.NoError(t, err)

	m := out[0].(hostarg.Double)
	assert.Equal(t, 3, m.Rows)
	assert.Equal(t, 2, m.Cols)
	assert.Equal(t, 310200.0, m.At(1, 1))
	assert.Equal(t, 320100.0, m.At(2, 0))
	assert.Len(t, lib.Calls, 6)
}

func TestCall_ArgumentErrorsNeverLoadTheEngine(t *testing.T) {
	lib := testutil.NewFakeLibrary()
	ev, loader := newEvaluator(lib)

	in := hostArgs(hostarg.NewScalar(300), hostarg.NewScalar(101325))
	in[5] = hostarg.NewScalar(0.5)

	out, err := Call(ev, 1, in)
	assert.Nil(t, out)
	assert.Equal(t, callerr.KindFractional, callerr.KindOf(err))
	assert.Zero(t, loader.LoadCount())
}

func TestCall_EngineErrorsReturnNoOutput(t *testing.T) {
	lib := testutil.NewFakeLibrary()
	lib.FailAt = 2
	ev, _ := newEvaluator(lib)

	out, err := Call(ev, 1, hostArgs(hostarg.NewRow(300, 310), hostarg.NewScalar(101325)))
	assert.Nil(t, out)
	assert.True(t, callerr.IsEngineError(err))
	assert.Equal(t, 1, lib.Unloads)
}

func TestCall_PassesEnginePath(t *testing.T) {
	lib := testutil.NewFakeLibrary()
	ev, _ := newEvaluator(lib)

	_, err := Call(ev, 1, hostArgs(hostarg.NewScalar(300), hostarg.NewScalar(101325)))
	require.NoError(t, err)
	assert.Equal(t, `C:\Program Files\REFPROP`, lib.Path)
}

func TestInvoke_KeepsRequestOnEngineError(t *testing.T) {
	lib := testutil.NewFakeLibrary()
	lib.FluidsErr = 101
	ev, _ := newEvaluator(lib)

	out, err := Invoke(ev, 1, hostArgs(hostarg.NewScalar(300), hostarg.NewScalar(101325)))
	require.Error(t, err)
	require.NotNil(t, out.Request)
	assert.Equal(t, "WATER", out.Request.Fluid)
	assert.Nil(t, out.Result)
	assert.Nil(t, out.Values)
}

func TestInvoke_NoRequestOnArgumentError(t *testing.T) {
	ev, _ := newEvaluator(testutil.NewFakeLibrary())

	out, err := Invoke(ev, 2, hostArgs(hostarg.NewScalar(300), hostarg.NewScalar(101325)))
	assert.True(t, callerr.IsArityError(err))
	assert.Nil(t, out.Request)
}

func TestInvoke_Success(t *testing.T) {
	ev, _ := newEvaluator(testutil.NewFakeLibrary())

	out, err := Invoke(ev, 1, hostArgs(hostarg.NewRow(1, 2), hostarg.NewScalar(3)))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Result.Rows)
	assert.Equal(t, []float64{4, 5}, out.Result.Data)
	require.Len(t, out.Values, 1)
	assert.Equal(t, "kg/m^3", out.Result.Units)
}
