package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

func newTestServer(t *testing.T, archive *mockArchiveService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Archive: archive})
	require.NoError(t, err)
	return server
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, sampleArchive())

	t.Run("matches newest first", func(t *testing.T) {
		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "GARDEN"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, 2, output.Total)
		assert.Equal(t, "summer", output.Results[0].ID)
		assert.Equal(t, "spring", output.Results[1].ID)
		assert.Equal(t, "2025-06-01", output.Results[0].Date)
		assert.NotEmpty(t, output.Results[0].Highlights)
	})

	t.Run("limit and offset", func(t *testing.T) {
		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "", Limit: 1, Offset: 1})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, 3, output.Total)
		assert.Equal(t, "spring", output.Results[0].ID)
	})

	t.Run("no matches", func(t *testing.T) {
		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "zeppelin"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Empty(t, output.Results)
	})
}

func TestServer_handleList(t *testing.T) {
	ctx := context.Background()

	t.Run("default limit", func(t *testing.T) {
		_, output, err := newTestServer(t, sampleArchive()).handleList(ctx, nil, ListInput{})

		require.NoError(t, err)
		assert.Equal(t, 3, output.Total)
		require.Len(t, output.Newsletters, 3)
		assert.Equal(t, "summer", output.Newsletters[0].ID)
		assert.Empty(t, output.Status)
	})

	t.Run("offset past end", func(t *testing.T) {
		_, output, err := newTestServer(t, sampleArchive()).handleList(ctx, nil, ListInput{Offset: 10})

		require.NoError(t, err)
		assert.Empty(t, output.Newsletters)
		assert.NotNil(t, output.Newsletters)
	})

	t.Run("empty archive explains why", func(t *testing.T) {
		archive := newMockArchive()
		archive.status = &domain.ArchiveStatus{Empty: true, ManifestErr: domain.ErrManifestUnavailable}

		_, output, err := newTestServer(t, archive).handleList(ctx, nil, ListInput{})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Total)
		assert.Contains(t, output.Status, "manifest unavailable")
	})
}

func TestServer_handleGet(t *testing.T) {
	ctx := context.Background()
	server := newTestServer(t, sampleArchive())

	t.Run("plain text by default", func(t *testing.T) {
		_, output, err := server.handleGet(ctx, nil, GetInput{ID: "spring"})

		require.NoError(t, err)
		assert.Equal(t, "Spring Issue", output.Newsletter.Title)
		assert.Equal(t, "text", output.Format)
		assert.Equal(t, "Seed swap on Saturday at the garden.", output.Body)
	})

	t.Run("markup on request", func(t *testing.T) {
		_, output, err := server.handleGet(ctx, nil, GetInput{ID: "spring", Markup: true})

		require.NoError(t, err)
		assert.Equal(t, "html", output.Format)
		assert.Equal(t, "<p>Seed swap on Saturday at the garden.</p>", output.Body)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, _, err := server.handleGet(ctx, nil, GetInput{ID: "autumn"})
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("missing id", func(t *testing.T) {
		_, _, err := server.handleGet(ctx, nil, GetInput{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEmptyStatus(t *testing.T) {
	assert.Contains(t, emptyStatus(domain.ArchiveStatus{Empty: true, Failures: 3}), "all 3 files failed")
	assert.Equal(t, "no newsletters found", emptyStatus(domain.ArchiveStatus{Empty: true}))
}
