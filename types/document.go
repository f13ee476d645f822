package types

const (
	DocumentSourceUploaded = "uploaded"
	DocumentSourcePreset   = "preset"
)

// Document is the metadata record for an uploaded or pre-seeded PDF.
// Processed flips to true once ingestion and index building complete.
type Document struct {
	ID         string `bson:"_id" json:"id"`
	Name       string `bson:"name" json:"name"`
	Source     string `bson:"source" json:"source"`
	FilePath   string `bson:"file_path" json:"-"`
	Processed  bool   `bson:"processed" json:"processed"`
	PageCount  int    `bson:"page_count" json:"page_count"`
	ChunkCount int    `bson:"chunk_count" json:"chunk_count"`
	UploadedAt int64  `bson:"uploaded_at" json:"uploaded_at"`
}

// DocumentChunk is a bounded span of extracted text with page metadata.
type DocumentChunk struct {
	Content string // The actual text content
	Page    int    // Page number where the chunk is from
}

// ScoredChunk is a retrieval result: a chunk plus its similarity score.
type ScoredChunk struct {
	Content string  `json:"text"`
	Page    int     `json:"page"`
	Score   float64 `json:"score"`
}

// Citation pairs a page number with a short snippet of the chunk that
// grounded part of an answer.
type Citation struct {
	Page int    `bson:"page" json:"page"`
	Text string `bson:"text" json:"text"`
}

// IngestResult reports what ingestion produced for a document.
type IngestResult struct {
	PageCount  int `json:"page_count"`
	ChunkCount int `json:"chunk_count"`
}

// DocumentServiceConfig contains configuration options for PDF processing
type DocumentServiceConfig struct {
	MaxChunkSize int // Maximum size for text chunks
	OverlapSize  int // Size of overlap between chunks
}
