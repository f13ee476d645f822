package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tieubaoca/study-assistant-be/types"
)

// IndexManager owns the durable index artifacts (one sqlite file per
// document under dir) and a bounded in-memory cache of loaded indexes.
// The persisted form is authoritative; the cache only avoids reopening
// files on repeated queries.
type IndexManager struct {
	dir   string
	cache *lru.Cache[string, *DocumentIndex]
	mu    sync.Mutex // serializes artifact replace and cache-miss loads
}

func NewIndexManager(dir string, cacheSize int) (*IndexManager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	if cacheSize <= 0 {
		cacheSize = 32
	}
	cache, err := lru.NewWithEvict(cacheSize, func(documentID string, idx *DocumentIndex) {
		if err := idx.Close(); err != nil {
			log.Printf("Failed to close evicted index %s: %v", documentID, err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &IndexManager{dir: dir, cache: cache}, nil
}

func (m *IndexManager) indexPath(documentID string) string {
	return filepath.Join(m.dir, documentID+".db")
}

// Build writes a fresh index for the document and atomically replaces any
// previous artifact. On failure the old artifact and cache entry are left
// untouched, so a racing search never observes a partial index.
func (m *IndexManager) Build(documentID string, chunks []types.DocumentChunk, embeddings [][]float32) error {
	finalPath := m.indexPath(documentID)
	tmpPath := finalPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := BuildIndex(tmpPath, chunks, embeddings); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to install index: %w", err)
	}
	// Drop any handle on the replaced artifact.
	m.cache.Remove(documentID)
	log.Printf("Index built for document %s (%d chunks)", documentID, len(chunks))
	return nil
}

// Load returns the cached index for the document, opening the durable
// artifact on a miss. The miss path holds the same lock as Build, so a
// loader can never open an artifact mid-replace and then cache the
// stale handle after the build completes.
func (m *IndexManager) Load(documentID string) (*DocumentIndex, error) {
	if idx, ok := m.cache.Get(documentID); ok {
		return idx, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if idx, ok := m.cache.Get(documentID); ok {
		return idx, nil
	}

	path := m.indexPath(documentID)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: document %s", types.ErrIndexNotFound, documentID)
	}

	idx, err := OpenIndex(path)
	if err != nil {
		return nil, err
	}
	m.cache.Add(documentID, idx)
	return idx, nil
}

// Search loads the document's index and runs a KNN lookup against it.
func (m *IndexManager) Search(documentID string, embedding []float32, k int) ([]types.ScoredChunk, error) {
	idx, err := m.Load(documentID)
	if err != nil {
		return nil, err
	}
	return idx.Search(embedding, k)
}

// Delete removes the document's cache entry and durable artifact.
func (m *IndexManager) Delete(documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Remove(documentID)
	if err := os.Remove(m.indexPath(documentID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove index artifact: %w", err)
	}
	return nil
}

// Close evicts every cached index, closing the underlying handles.
func (m *IndexManager) Close() {
	m.cache.Purge()
}
