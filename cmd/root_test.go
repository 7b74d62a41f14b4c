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
	expected := []string{"serve", "check", "triage", "pipelines"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "spam-triage", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestCheckCommand_Flags(t *testing.T) {
	flag := checkCmd.Flags().Lookup("concurrency")
	require.NotNil(t, flag)
	assert.Equal(t, "5", flag.DefValue)

	flag = checkCmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "table", flag.DefValue)

	assert.Error(t, checkCmd.Args(checkCmd, nil), "check requires at least one phone")
}

func TestTriageCommand_Flags(t *testing.T) {
	require.NotNil(t, triageCmd.Flags().Lookup("lead-id"))
	require.NotNil(t, triageCmd.Flags().Lookup("phone"))
}

func TestPipelinesCommand_Flags(t *testing.T) {
	flag := pipelinesCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "text", flag.DefValue)
}
