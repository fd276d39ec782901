package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propgrid/internal/callerr"
)

func TestEval_TextTable(t *testing.T) {
	opts, lib, loader := testRoot("text")

	out, _, err := execute(NewEvalCommand(opts), waterArgs()...)
	require.NoError(t, err)

	assert.Contains(t, out, "D [kg/m^3]  TP  WATER  (2x2)")
	for _, v := range []string{"101325", "200000", "101625", "101635", "200300", "200310"} {
		assert.Contains(t, out, v)
	}
	assert.NotContains(t, out, "run ")
	assert.Equal(t, []string{filepath.Join("/opt/refprop", "librefprop.so")}, loader.Loads)
	assert.Equal(t, 4, lib.CallCount(), "one engine call per cell")
}

func TestEval_JSON(t *testing.T) {
	opts, _, _ := testRoot("json")

	out, _, err := execute(NewEvalCommand(opts), waterArgs()...)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2.0, data["rows"])
	assert.Equal(t, 2.0, data["cols"])
	assert.Equal(t, []any{101625.0, 101635.0, 200300.0, 200310.0}, data["data"])
	assert.Equal(t, "kg/m^3", data["units"])
}

func TestEval_RequiredFlags(t *testing.T) {
	opts, _, _ := testRoot("text")

	_, _, err := execute(NewEvalCommand(opts), "--inputs", "TP", "--fluid", "WATER")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
	assert.Contains(t, err.Error(), "property")
}

func TestEval_ArgumentErrorExitsWithCommandError(t *testing.T) {
	opts, lib, loader := testRoot("text")

	out, _, err := execute(NewEvalCommand(opts), waterArgs("--mass", "1.5")...)
	require.Error(t, err)

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, IsReported(err))
	assert.True(t, callerr.IsFractional(err))
	assert.Contains(t, out, "Error [FRACTIONAL]: decimal values of massOrMole")
	assert.Zero(t, loader.LoadCount(), "rejected arguments never load the engine")
	assert.Zero(t, lib.CallCount())
}

func TestEval_CompositionOverflow(t *testing.T) {
	opts, _, _ := testRoot("json")

	z := "0.05"
	for i := 0; i < 20; i++ {
		z += ",0.05"
	}
	out, _, err := execute(NewEvalCommand(opts), waterArgs("--z", z)...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "OUT_OF_SET", resp.Error.Code)
	details := resp.Error.Details.(map[string]any)
	assert.Equal(t, "composition", details["arg"])
	assert.Equal(t, "RangeError", details["class"])
}

func TestEval_EngineErrorExitsWithFailure(t *testing.T) {
	opts, lib, _ := testRoot("json")
	lib.FailAt = 3
	lib.FailCode = 203
	lib.FailMessage = "temperature below triple point"

	out, _, err := execute(NewEvalCommand(opts), waterArgs()...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, callerr.IsEngineError(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EVALUATION", resp.Error.Code)
	details := resp.Error.Details.(map[string]any)
	assert.Equal(t, 203.0, details["engine_code"])
	assert.Equal(t, "temperature below triple point", details["engine_message"])
	assert.Equal(t, 1, lib.UnloadCount())
}

func TestEval_LoadFailure(t *testing.T) {
	opts, _, loader := testRoot("text")
	loader.Err = assert.AnError

	out, _, err := execute(NewEvalCommand(opts), waterArgs()...)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [ENGINE_LOAD]")
}

func TestEval_DebugTraceGoesToStdoutInText(t *testing.T) {
	opts, _, _ := testRoot("text")

	out, errOut, err := execute(NewEvalCommand(opts), waterArgs("--debug", "1")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Value 1.1")
	assert.NotContains(t, errOut, "Value 1.1")
}

func TestEval_DebugTraceGoesToStderrInJSON(t *testing.T) {
	opts, _, _ := testRoot("json")

	out, errOut, err := execute(NewEvalCommand(opts), waterArgs("--debug", "1")...)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Value 1.1")
	decodeResponse(t, out)
}

func TestEval_UnitsFromConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "propgrid.ini")
	writeFile(t, cfgPath, "[engine]\nunits = ENGLISH\n")

	opts, lib, _ := testRoot("text")
	opts.ConfigPath = cfgPath

	_, _, err := execute(NewEvalCommand(opts), waterArgs()...)
	require.NoError(t, err)
	assert.Equal(t, []string{"ENGLISH"}, lib.EnumLookups)
	assert.Equal(t, 25, lib.Calls[0].Units)
}

func TestEval_BadConfig(t *testing.T) {
	opts, _, _ := testRoot("text")
	opts.ConfigPath = filepath.Join(t.TempDir(), "missing.ini")

	out, _, err := execute(NewEvalCommand(opts), waterArgs()...)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [CONFIG]")
}

func TestEval_RecordsRun(t *testing.T) {
	db := tempDB(t)
	opts, _, _ := testRoot("json")

	out, _, err := execute(NewEvalCommand(opts), waterArgs("--db", db)...)
	require.NoError(t, err)
	data := decodeResponse(t, out).Data.(map[string]any)
	runID, _ := data["run_id"].(string)
	require.NotEmpty(t, runID)

	st := openTestStore(t, db)
	run, err := st.ReadRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, "eval", run.Source)
	assert.Equal(t, "2026-01-02T03:04:06Z", run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	require.NotNil(t, run.Result)
	assert.Equal(t, 101625.0, run.Result.At(0, 0))
}

func TestEval_RecordsFailedRun(t *testing.T) {
	db := tempDB(t)
	opts, lib, _ := testRoot("text")
	lib.FluidsErr = 101

	_, _, err := execute(NewEvalCommand(opts), waterArgs("--db", db)...)
	require.Error(t, err)

	st := openTestStore(t, db)
	runs, err := st.ListRuns(context.Background(), 0, "")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "FLUID_SET", runs[0].ErrorKind)
	assert.Nil(t, runs[0].Result)
}
