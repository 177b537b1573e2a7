package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrUnsupportedType,
		ErrManifestUnavailable,
		ErrFetchFailed,
		ErrConversionFailed,
		ErrEmptyDocument,
	}

	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

func TestFailureKind_Sentinel(t *testing.T) {
	tests := []struct {
		kind     FailureKind
		expected error
	}{
		{FailureFetch, ErrFetchFailed},
		{FailureConversion, ErrConversionFailed},
		{FailureEmpty, ErrEmptyDocument},
		{FailureKind("other"), ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.Sentinel())
		})
	}
}

func TestIngestFailure_Is(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(NewIngestFailure("spring.docx", FailureFetch, cause))

	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrConversionFailed)

	var failure *IngestFailure
	assert.True(t, errors.As(err, &failure))
	assert.Equal(t, "spring.docx", failure.Identifier)
}

func TestIngestFailure_Error(t *testing.T) {
	withCause := NewIngestFailure("a.docx", FailureConversion, errors.New("bad zip"))
	assert.Equal(t, "a.docx: conversion failed: bad zip", withCause.Error())
	assert.Equal(t, "bad zip", withCause.Reason())

	bare := NewIngestFailure("b.txt", FailureEmpty, nil)
	assert.Equal(t, "b.txt: empty document", bare.Error())
	assert.Equal(t, "empty document", bare.Reason())
	assert.ErrorIs(t, bare, ErrEmptyDocument)
}
