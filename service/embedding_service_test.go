package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIEmbedderUnconfigured(t *testing.T) {
	e := NewOpenAIEmbedder("", "", "text-embedding-3-small")
	assert.False(t, e.Configured())

	_, err := e.EmbedTexts(context.Background(), []string{"hello"})
	assert.True(t, errors.Is(err, ErrEmbeddingUnconfigured))
}

func TestOpenAIEmbedderConfigured(t *testing.T) {
	e := NewOpenAIEmbedder("http://localhost:1234/v1", "test-key", "text-embedding-3-small")
	assert.True(t, e.Configured())

	// No inputs means no calls.
	vectors, err := e.EmbedTexts(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}
