package mcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil archive service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingArchiveService)
	})

	t.Run("nil ports returns error", func(t *testing.T) {
		_, err := NewServer(nil)
		assert.ErrorIs(t, err, ErrMissingArchiveService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Archive: sampleArchive()})
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.Handler())
	})
}

func TestServer_Serve_StopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Archive: sampleArchive()})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	conn, err := net.DialTimeout("tcp", ln.Addr().String(), time.Second)
	require.NoError(t, err)
	_ = conn.Close()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}
