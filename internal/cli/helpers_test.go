package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/propgrid/internal/store"
	"github.com/roach88/propgrid/internal/testutil"
)

// testRoot returns root options wired to a fake engine and a step clock.
func testRoot(format string) (*RootOptions, *testutil.FakeLibrary, *testutil.FakeLoader) {
	lib := testutil.NewFakeLibrary()
	loader := testutil.NewFakeLoader(lib)
	clock := testutil.NewStepClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), time.Second)
	return &RootOptions{Format: format, Loader: loader, Now: clock.Now}, lib, loader
}

// execute runs cmd with args and returns stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func decodeResponse(t *testing.T, out string) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "runs.db")
}

func waterArgs(extra ...string) []string {
	return append([]string{
		"--property", "D",
		"--inputs", "TP",
		"--v1", "300,310",
		"--v2", "101325,200000",
		"--fluid", "WATER",
		"--engine-path", "/opt/refprop",
		"--library", "librefprop.so",
	}, extra...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func openTestStore(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}
