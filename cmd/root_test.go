package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"predict", "export", "copy", "serve", "dashboard"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "adtarget", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestPredictCommands_SharedFlags(t *testing.T) {
	for _, c := range []string{"predict", "export", "copy", "dashboard"} {
		cmd, _, err := rootCmd.Find([]string{c})
		require.NoError(t, err)
		for _, name := range []string{"subject", "threshold", "top-k", "upload"} {
			assert.NotNil(t, cmd.Flags().Lookup(name), "%s should have --%s flag", c, name)
		}
	}
}

func TestPredictCommand_Flags(t *testing.T) {
	flag := predictCmd.Flags().Lookup("format")
	require.NotNil(t, flag, "predict command should have --format flag")
	assert.Equal(t, "json", flag.DefValue)
}

func TestExportCommand_Flags(t *testing.T) {
	flag := exportCmd.Flags().Lookup("formats")
	require.NotNil(t, flag, "export command should have --formats flag")
	assert.Equal(t, "json,csv", flag.DefValue)

	require.NotNil(t, exportCmd.Flags().Lookup("out"))
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}
