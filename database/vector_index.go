package database

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3" // Import sqlite3 driver
	"github.com/tieubaoca/study-assistant-be/types"
)

func init() {
	sqlite_vec.Auto()
}

// DocumentIndex is a read-only handle on one document's durable vector
// index: a sqlite file holding the chunk payloads plus a vec0 table for
// cosine nearest-neighbor search.
type DocumentIndex struct {
	db    *sql.DB
	count int
}

// BuildIndex writes a complete index for the given chunks and their
// embeddings to path. The file is created in one transaction so a failed
// build never leaves a partially filled index behind.
func BuildIndex(path string, chunks []types.DocumentChunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open index database: %w", err)
	}
	defer db.Close()

	chunksQuery := `
	CREATE TABLE chunks (
		seq INTEGER PRIMARY KEY,
		content TEXT NOT NULL,
		page INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(chunksQuery); err != nil {
		return fmt.Errorf("failed to create chunks table: %w", err)
	}

	// The vec table needs a fixed dimension, so it is only created when
	// there is at least one embedding.
	if len(embeddings) > 0 {
		vecQuery := fmt.Sprintf(`
		CREATE VIRTUAL TABLE vec_chunks USING vec0(
			seq INTEGER PRIMARY KEY,
			embedding FLOAT[%d] distance_metric=cosine
		)
		`, len(embeddings[0]))
		if _, err := db.Exec(vecQuery); err != nil {
			return fmt.Errorf("failed to create vec_chunks table: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, chunk := range chunks {
		if _, err := tx.Exec(`INSERT INTO chunks (seq, content, page) VALUES (?, ?, ?)`,
			i, chunk.Content, chunk.Page); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
		if _, err := tx.Exec(`INSERT INTO vec_chunks (seq, embedding) VALUES (?, ?)`,
			i, serializeFloat32Vector(embeddings[i])); err != nil {
			return fmt.Errorf("failed to insert chunk vector %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}

// OpenIndex opens an existing index file.
func OpenIndex(path string) (*DocumentIndex, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	return &DocumentIndex{db: db, count: count}, nil
}

// Count returns the number of chunks in the index.
func (idx *DocumentIndex) Count() int {
	return idx.count
}

// Close releases the underlying database handle. In-flight searches
// finish before the handle is torn down.
func (idx *DocumentIndex) Close() error {
	return idx.db.Close()
}

// Search runs a cosine KNN lookup and returns chunks in descending
// similarity order, ties broken by insertion order. Asking for more
// results than the index holds returns everything.
func (idx *DocumentIndex) Search(embedding []float32, k int) ([]types.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if idx.count == 0 {
		return nil, nil
	}
	if k > idx.count {
		k = idx.count
	}

	rows, err := idx.db.Query(`
		SELECT m.seq, m.distance, c.content, c.page
		FROM (
			SELECT seq, distance FROM vec_chunks
			WHERE embedding MATCH ? AND k = ?
			ORDER BY distance
		) m
		JOIN chunks c ON c.seq = m.seq
	`, serializeFloat32Vector(embedding), k)
	if err != nil {
		return nil, fmt.Errorf("knn query failed: %w", err)
	}
	defer rows.Close()

	type hit struct {
		seq      int
		distance float64
		chunk    types.ScoredChunk
	}
	var hits []hit
	for rows.Next() {
		var h hit
		if err := rows.Scan(&h.seq, &h.distance, &h.chunk.Content, &h.chunk.Page); err != nil {
			return nil, fmt.Errorf("failed to scan knn result: %w", err)
		}
		h.chunk.Score = 1 - h.distance
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("knn query failed: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return hits[i].seq < hits[j].seq
	})

	results := make([]types.ScoredChunk, 0, len(hits))
	for _, h := range hits {
		results = append(results, h.chunk)
	}
	return results, nil
}

// serializeFloat32Vector converts a float32 slice to the byte format
// expected by sqlite-vec
func serializeFloat32Vector(vec []float32) []byte {
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(v))
	}
	return buf
}
