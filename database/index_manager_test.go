package database

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/study-assistant-be/types"
)

func TestLoadMissingIndex(t *testing.T) {
	m, err := NewIndexManager(t.TempDir(), 4)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Load("no-such-document")
	assert.True(t, errors.Is(err, types.ErrIndexNotFound))

	_, err = m.Search("no-such-document", []float32{1, 0, 0}, 3)
	assert.True(t, errors.Is(err, types.ErrIndexNotFound))
}

func TestBuildThenSearch(t *testing.T) {
	m, err := NewIndexManager(t.TempDir(), 4)
	require.NoError(t, err)
	defer m.Close()

	chunks, embeddings := testChunks()
	require.NoError(t, m.Build("doc-1", chunks, embeddings))

	results, err := m.Search("doc-1", []float32{0, 0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "The mitochondria is the powerhouse of the cell.", results[0].Content)

	// A second search hits the cached handle and agrees with the first.
	again, err := m.Search("doc-1", []float32{0, 0, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, results, again)
}

func TestBuildReplacesIndex(t *testing.T) {
	m, err := NewIndexManager(t.TempDir(), 4)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Build("doc-1",
		[]types.DocumentChunk{{Content: "old content", Page: 1}},
		[][]float32{{1, 0}}))

	results, err := m.Search("doc-1", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "old content", results[0].Content)

	require.NoError(t, m.Build("doc-1",
		[]types.DocumentChunk{{Content: "new content", Page: 1}},
		[][]float32{{1, 0}}))

	results, err = m.Search("doc-1", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new content", results[0].Content)
}

func TestDeleteIndex(t *testing.T) {
	m, err := NewIndexManager(t.TempDir(), 4)
	require.NoError(t, err)
	defer m.Close()

	chunks, embeddings := testChunks()
	require.NoError(t, m.Build("doc-1", chunks, embeddings))
	_, err = m.Search("doc-1", []float32{1, 0, 0}, 1)
	require.NoError(t, err)

	require.NoError(t, m.Delete("doc-1"))
	_, err = m.Load("doc-1")
	assert.True(t, errors.Is(err, types.ErrIndexNotFound))

	// Deleting a missing index is not an error.
	assert.NoError(t, m.Delete("doc-1"))
}

func TestBuildVisibleToConcurrentLoaders(t *testing.T) {
	m, err := NewIndexManager(t.TempDir(), 4)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Build("doc-1",
		[]types.DocumentChunk{{Content: "old content", Page: 1}},
		[][]float32{{1, 0}}))

	// Loaders race the rebuild below. Their own results may come from
	// either index, but once Build has returned, no loader may have left
	// a stale handle behind in the cache.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				if _, err := m.Search("doc-1", []float32{1, 0}, 1); err != nil {
					return
				}
			}
		}()
	}

	require.NoError(t, m.Build("doc-1",
		[]types.DocumentChunk{{Content: "new content", Page: 1}},
		[][]float32{{1, 0}}))
	wg.Wait()

	results, err := m.Search("doc-1", []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new content", results[0].Content)
}

func TestIndexSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	chunks, embeddings := testChunks()

	first, err := NewIndexManager(dir, 4)
	require.NoError(t, err)
	require.NoError(t, first.Build("doc-1", chunks, embeddings))
	before, err := first.Search("doc-1", []float32{0.9, 0.1, 0}, 3)
	require.NoError(t, err)
	first.Close()

	// A fresh manager over the same directory stands in for a process
	// restart; only the durable artifact carries over.
	second, err := NewIndexManager(dir, 4)
	require.NoError(t, err)
	defer second.Close()
	after, err := second.Search("doc-1", []float32{0.9, 0.1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCacheEvictionReopensIndex(t *testing.T) {
	m, err := NewIndexManager(t.TempDir(), 1)
	require.NoError(t, err)
	defer m.Close()

	chunks, embeddings := testChunks()
	require.NoError(t, m.Build("doc-1", chunks, embeddings))
	require.NoError(t, m.Build("doc-2", chunks, embeddings))

	// Alternating searches force evictions; results stay correct because
	// the durable artifact is reopened on each miss.
	for i := 0; i < 3; i++ {
		for _, docID := range []string{"doc-1", "doc-2"} {
			results, err := m.Search(docID, []float32{0, 1, 0}, 1)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "Photosynthesis converts light into chemical energy.", results[0].Content)
		}
	}
}
