package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propgrid/internal/callerr"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("EVALUATION", "property call 1 failed", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, "EVALUATION", resp.Error.Code)
	assert.Equal(t, "property call 1 failed", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"arg": "massOrMole", "class": "RangeError"}
	err := formatter.Error("FRACTIONAL", "decimal values of massOrMole are invalid", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("water-table: 2 ok, 0 failed")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "water-table: 2 ok, 0 failed")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("EVALUATION", "property call 1 failed", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [EVALUATION]")
	assert.Contains(t, buf.String(), "property call 1 failed")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"job": "water.yaml"}
	err := formatter.Error("EVALUATION", "property call 1 failed", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [EVALUATION]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Listening on %s", "ws://127.0.0.1:9000/ws")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Listening on ws://127.0.0.1:9000/ws")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestCLIResponse_JSON(t *testing.T) {
	resp := CLIResponse{
		Status: "ok",
		Data:   map[string]int{"count": 42},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded CLIResponse
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "ok", decoded.Status)
}

func TestCLIError_JSON(t *testing.T) {
	cliErr := CLIError{
		Code:    "JOB",
		Message: "job water.yaml: empty document",
		Details: []string{"requests"},
	}

	data, err := json.Marshal(cliErr)
	require.NoError(t, err)

	var decoded CLIError
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)
	assert.Equal(t, "JOB", decoded.Code)
	assert.Equal(t, "job water.yaml: empty document", decoded.Message)
}

func TestFail_ArgumentError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	cause := callerr.ForArg(callerr.KindFractional, "massOrMole", "decimal values of massOrMole are invalid: %f", 1.5)
	err := formatter.Fail(ExitFailure, ErrCodeGeneric, cause)

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, IsReported(err))
	assert.True(t, errors.Is(err, cause))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FRACTIONAL", resp.Error.Code)
	details := resp.Error.Details.(map[string]any)
	assert.Equal(t, "RangeError", details["class"])
	assert.Equal(t, "massOrMole", details["arg"])
}

func TestFail_EngineError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	cause := callerr.Engine(callerr.KindFluidSet, 101, "", "fluid %s failed to set: error %d", "WATER", 101)
	err := formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("request 1: %w", cause))

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [FLUID_SET]: fluid WATER failed to set: error 101")
}

func TestFail_PlainError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Fail(ExitCommandError, ErrCodeJob, errors.New("job x.yaml: empty document"))

	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, IsReported(err))
	assert.Contains(t, buf.String(), "Error [JOB]: job x.yaml: empty document")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(&ExitError{Code: ExitCommandError, Message: "bad flag"}))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrapped: %w", &ExitError{Code: ExitFailure, Message: "engine", Err: errors.New("x")})))
	assert.False(t, IsReported(&ExitError{Code: ExitFailure, Message: "not yet written"}))
}
