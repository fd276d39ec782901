package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "propgrid", cmd.Use)
	assert.Contains(t, cmd.Long, "one engine call per cell")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"eval"},
		{"batch"},
		{"serve"},
		{"history"},
		{"history", "list"},
		{"history", "show"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestEvalCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	evalCmd, _, err := cmd.Find([]string{"eval"})
	require.NoError(t, err)

	for _, name := range []string{"property", "inputs", "v1", "v2", "fluid", "mass", "z",
		"units", "engine-path", "library", "debug", "db"} {
		assert.NotNil(t, evalCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "p", evalCmd.Flags().Lookup("property").Shorthand)
}

func TestBatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	batchCmd, _, err := cmd.Find([]string{"batch"})
	require.NoError(t, err)

	keepGoing := batchCmd.Flags().Lookup("keep-going")
	require.NotNil(t, keepGoing)
	assert.Equal(t, "false", keepGoing.DefValue)
	assert.NotNil(t, batchCmd.Flags().Lookup("db"))
}

func TestInvalidFormat(t *testing.T) {
	opts, _, _ := testRoot("text")
	cmd := newRootCommand(opts)

	_, _, err := execute(cmd, "--format", "xml", "eval", "-p", "D", "-i", "TP", "--fluid", "WATER")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRootExecutesEval(t *testing.T) {
	opts, lib, _ := testRoot("text")
	cmd := newRootCommand(opts)

	out, _, err := execute(cmd, append([]string{"eval"}, waterArgs()...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "(2x2)")
	assert.Equal(t, 4, lib.CallCount())
}
