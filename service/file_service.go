package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tieubaoca/study-assistant-be/database"
	"github.com/tieubaoca/study-assistant-be/repository"
	"github.com/tieubaoca/study-assistant-be/types"
	"github.com/tieubaoca/study-assistant-be/utils"
)

// FileService handles document upload and the asynchronous
// ingest-then-index pipeline behind it. The upload call returns as soon
// as the file is stored; the document's processed flag is the completion
// signal.
type FileService struct {
	uploadDir  string
	pdfService *PDFService
	embedder   Embedder
	indexes    *database.IndexManager
	documents  repository.DocumentRepo
}

func NewFileService(
	uploadDir string,
	pdfService *PDFService,
	embedder Embedder,
	indexes *database.IndexManager,
	documents repository.DocumentRepo,
) *FileService {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		panic(err)
	}
	return &FileService{
		uploadDir:  uploadDir,
		pdfService: pdfService,
		embedder:   embedder,
		indexes:    indexes,
		documents:  documents,
	}
}

// UploadFile stores the uploaded PDF, records its metadata and kicks off
// processing in the background.
func (s *FileService) UploadFile(ctx context.Context, req types.UploadRequest, file *multipart.FileHeader) (*types.Document, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	title := req.Title
	if title == "" {
		title = strings.TrimSuffix(file.Filename, ext)
	}

	// File name format: originalname_timestamp.pdf
	filename := fmt.Sprintf("%s_%d%s", utils.SanitizeFileName(title), time.Now().Unix(), ext)
	destPath := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return nil, err
	}

	doc := &types.Document{
		ID:         uuid.NewString(),
		Name:       title,
		Source:     types.DocumentSourceUploaded,
		FilePath:   destPath,
		UploadedAt: time.Now().Unix(),
	}
	if err := s.documents.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	go s.process(doc)
	return doc, nil
}

// process runs ingestion and index building for a stored document. On
// any failure the document simply stays unprocessed.
func (s *FileService) process(doc *types.Document) {
	ctx := context.Background()

	data, err := os.ReadFile(doc.FilePath)
	if err != nil {
		log.Printf("Failed to read document %s: %v", doc.ID, err)
		return
	}

	result, err := s.IngestAndIndex(ctx, data, doc.ID)
	if err != nil {
		log.Printf("Failed to process document %s: %v", doc.ID, err)
		return
	}
	if result == nil {
		// Embeddings unavailable, no index was built.
		return
	}

	if err := s.documents.MarkProcessed(ctx, doc.ID, result.PageCount, result.ChunkCount); err != nil {
		log.Printf("Failed to mark document %s processed: %v", doc.ID, err)
	}
}

// IngestAndIndex chunks the PDF bytes, embeds the chunks and builds the
// document's index. A nil result with nil error means the embedding
// model is unconfigured and indexing was skipped.
func (s *FileService) IngestAndIndex(ctx context.Context, fileBytes []byte, documentID string) (*types.IngestResult, error) {
	chunks, pageCount, err := s.pdfService.Ingest(fileBytes, documentID)
	if err != nil {
		return nil, err
	}

	if !s.embedder.Configured() {
		log.Printf("Embedding model not configured, skipping index build for document %s", documentID)
		return nil, nil
	}

	texts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		texts = append(texts, chunk.Content)
	}
	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	if err := s.indexes.Build(documentID, chunks, embeddings); err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	return &types.IngestResult{PageCount: pageCount, ChunkCount: len(chunks)}, nil
}

// DeleteDocument removes the uploaded file, the index artifact and the
// metadata record together.
func (s *FileService) DeleteDocument(ctx context.Context, documentID string) error {
	doc, err := s.documents.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}

	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove file for document %s: %v", documentID, err)
		}
	}
	if err := s.indexes.Delete(documentID); err != nil {
		log.Printf("Failed to remove index for document %s: %v", documentID, err)
	}
	return s.documents.DeleteDocument(ctx, documentID)
}

// UploadLocalFile ingests a PDF already on disk, synchronously. Used by
// the upload-document command where there is no request to return to.
func (s *FileService) UploadLocalFile(ctx context.Context, path string) (*types.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".pdf" {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	destPath, err := utils.CopyFileWithTimestamp(path, s.uploadDir)
	if err != nil {
		return nil, err
	}

	doc := &types.Document{
		ID:         uuid.NewString(),
		Name:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Source:     types.DocumentSourceUploaded,
		FilePath:   destPath,
		UploadedAt: time.Now().Unix(),
	}
	if err := s.documents.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	data, err := os.ReadFile(destPath)
	if err != nil {
		return nil, err
	}
	result, err := s.IngestAndIndex(ctx, data, doc.ID)
	if err != nil {
		return nil, err
	}
	if result != nil {
		if err := s.documents.MarkProcessed(ctx, doc.ID, result.PageCount, result.ChunkCount); err != nil {
			return nil, err
		}
		doc.Processed = true
		doc.PageCount = result.PageCount
		doc.ChunkCount = result.ChunkCount
	}
	return doc, nil
}
