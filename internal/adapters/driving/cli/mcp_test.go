package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Registered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"mcp", "serve"})
	require.NoError(t, err)
	assert.Equal(t, mcpServeCmd, cmd)
}

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)

	assert.NotNil(t, mcpServeCmd.Flags().Lookup("http"))

	watch := mcpServeCmd.Flags().Lookup("watch")
	require.NotNil(t, watch)
	assert.Equal(t, "w", watch.Shorthand)
}

func TestMCPServeCmd_WatchUnsupported(t *testing.T) {
	ingester := setupTestServices(t, sampleDocs()...)

	_, err := execute(t, "mcp", "serve", "--watch")

	assert.ErrorIs(t, err, errWatchUnsupported)
	assert.Equal(t, 1, ingester.runs, "archive is loaded before watching starts")
}

func TestMCPServeCmd_NoArchive(t *testing.T) {
	SetServices(nil)

	_, err := execute(t, "mcp", "serve")

	assert.ErrorIs(t, err, errNoArchive)
}
