package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
)

func TestIngestCmd_Summary(t *testing.T) {
	setupTestServices(t, sampleDocs()...)

	out, err := execute(t, "ingest")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 3 newsletters from 3 files in 42ms")
	assert.Contains(t, out, "run: run-")
	assert.NotContains(t, out, "Failed")
}

func TestIngestCmd_ListsFailures(t *testing.T) {
	ingester := setupTestServices(t, sampleDocs()[:1]...)
	ingester.failures = []domain.IngestFailure{
		{Identifier: "broken.docx", Kind: domain.FailureConversion, Err: errors.New("zip: not a valid zip file")},
		{Identifier: "missing.docx", Kind: domain.FailureFetch, Err: errors.New("404 Not Found")},
	}

	out, err := execute(t, "ingest")

	require.NoError(t, err)
	assert.Contains(t, out, "Ingested 1 newsletters from 3 files")
	assert.Contains(t, out, "Failed (2):")
	assert.Contains(t, out, "✗ broken.docx:")
	assert.Contains(t, out, "✗ missing.docx:")
}

func TestIngestCmd_Strict(t *testing.T) {
	ingester := setupTestServices(t, sampleDocs()...)
	ingester.failures = []domain.IngestFailure{{Identifier: "x.docx", Kind: domain.FailureEmpty}}

	_, err := execute(t, "ingest", "--strict")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 4 files failed")
}

func TestIngestCmd_ManifestUnavailable(t *testing.T) {
	ingester := setupTestServices(t)
	ingester.manifestErr = domain.ErrManifestUnavailable

	out, err := execute(t, "ingest")

	require.NoError(t, err)
	assert.Contains(t, out, "manifest: manifest unavailable")
	assert.Contains(t, out, "no newsletters:")
	assert.Contains(t, out, "source.location")
}

func TestIngestCmd_Errors(t *testing.T) {
	ingester := setupTestServices(t)
	ingester.err = errors.New("settings broke")

	_, err := execute(t, "ingest")
	assert.ErrorContains(t, err, "ingest failed")

	SetServices(nil)
	_, err = execute(t, "ingest")
	assert.ErrorIs(t, err, errNoArchive)
}
