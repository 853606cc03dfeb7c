package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"index", "search", "ask", "clause", "risk", "audit", "mcp", "version"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestSetupServices_WiresEverything(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USER", "tester")
	t.Setenv("ADE_API_KEY", "")

	require.NoError(t, setupServices(rootCmd, nil))

	assert.NotNil(t, ingestService)
	assert.NotNil(t, searchService)
	assert.NotNil(t, answerService)
	assert.NotNil(t, clauseService)
	assert.NotNil(t, riskService)
	assert.NotNil(t, auditTrail)
	assert.Equal(t, "tester", currentUser)
	assert.NotEmpty(t, snapshotPath)
}

func TestSetupServices_UserFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USER", "")
	t.Setenv("ADE_API_KEY", "")

	require.NoError(t, setupServices(rootCmd, nil))

	assert.Equal(t, "analyst", currentUser)
}

func TestAuditCmd_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range auditCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"stats", "recent", "export", "prune"} {
		assert.True(t, names[want], "audit subcommand %q not registered", want)
	}
}
