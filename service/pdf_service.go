package service

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/tieubaoca/study-assistant-be/types"
)

// PDFService handles PDF processing operations
type PDFService struct {
	maxChunkSize int // Maximum size of each text chunk
	overlapSize  int // Size of overlap between chunks
}

var DefaultDocumentServiceConfig = types.DocumentServiceConfig{
	MaxChunkSize: 1000,
	OverlapSize:  200,
}

// NewPDFService creates a new PDF service with configurable chunk sizes
func NewPDFService(config types.DocumentServiceConfig) *PDFService {
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultDocumentServiceConfig.MaxChunkSize
	}
	if config.OverlapSize <= 0 || config.OverlapSize >= config.MaxChunkSize {
		config.OverlapSize = DefaultDocumentServiceConfig.OverlapSize
		if config.OverlapSize >= config.MaxChunkSize {
			config.OverlapSize = config.MaxChunkSize / 2
		}
	}
	return &PDFService{
		maxChunkSize: config.MaxChunkSize,
		overlapSize:  config.OverlapSize,
	}
}

// pageSpan records where a page's text landed in the concatenated document
// text, so chunks can be attributed back to a page.
type pageSpan struct {
	start int
	end   int
	num   int
}

// Ingest parses raw PDF bytes and splits the extracted text into
// overlapping chunks. The page count is reported even when no text could
// be extracted; a byte stream that is not a PDF fails with
// types.ErrUnreadablePDF.
func (s *PDFService) Ingest(fileBytes []byte, documentID string) ([]types.DocumentChunk, int, error) {
	pageTexts, totalPages, err := extractPages(fileBytes)
	if err != nil {
		return nil, 0, err
	}
	log.Printf("Extracted %d pages from document %s", totalPages, documentID)

	// Concatenate pages, remembering page boundaries.
	var builder strings.Builder
	var spans []pageSpan
	for i, text := range pageTexts {
		if text == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		start := builder.Len()
		builder.WriteString(text)
		spans = append(spans, pageSpan{start: start, end: builder.Len(), num: i + 1})
	}

	text := builder.String()
	chunks := s.createChunks(text, spans)
	log.Printf("Created %d chunks from document %s", len(chunks), documentID)
	return chunks, totalPages, nil
}

// extractPages reads per-page text from the PDF. Pages that fail text
// extraction are skipped with a warning; a document that cannot be parsed
// at all is unreadable. The pdf reader panics on some malformed inputs,
// so parsing runs behind a recover.
func extractPages(fileBytes []byte) (texts []string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts, pages = nil, 0
			err = fmt.Errorf("%w: %v", types.ErrUnreadablePDF, r)
		}
	}()

	if len(fileBytes) == 0 {
		return nil, 0, fmt.Errorf("%w: empty input", types.ErrUnreadablePDF)
	}

	reader, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", types.ErrUnreadablePDF, err)
	}

	pages = reader.NumPage()
	texts = make([]string, pages)
	for pageNum := 1; pageNum <= pages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("Warning: failed to extract text from page %d: %v", pageNum, err)
			continue
		}
		texts[pageNum-1] = cleanText(text)
	}
	return texts, pages, nil
}

// createChunks splits the concatenated text into overlapping chunks,
// preferring paragraph boundaries, then sentence ends, then word
// boundaries, with a hard cut as the last resort.
func (s *PDFService) createChunks(text string, spans []pageSpan) []types.DocumentChunk {
	var chunks []types.DocumentChunk
	textLen := len(text)
	if textLen == 0 {
		return chunks
	}

	currentPos := 0
	for currentPos < textLen {
		chunkEnd := currentPos + s.maxChunkSize
		if chunkEnd >= textLen {
			// Last chunk
			if chunk := strings.TrimSpace(text[currentPos:]); chunk != "" {
				chunks = append(chunks, types.DocumentChunk{
					Content: chunk,
					Page:    pageForOffset(spans, currentPos),
				})
			}
			break
		}

		splitAt := s.findSplit(text, currentPos, chunkEnd)
		if chunk := strings.TrimSpace(text[currentPos:splitAt]); chunk != "" {
			chunks = append(chunks, types.DocumentChunk{
				Content: chunk,
				Page:    pageForOffset(spans, currentPos),
			})
		}

		// Step back by the overlap so consecutive chunks share context,
		// keeping the restart on a rune boundary.
		nextPos := splitAt - s.overlapSize
		for nextPos > currentPos && !utf8.RuneStart(text[nextPos]) {
			nextPos--
		}
		if nextPos <= currentPos {
			nextPos = splitAt
		}
		currentPos = nextPos
	}

	return chunks
}

// findSplit picks the best split point in text[currentPos:chunkEnd].
func (s *PDFService) findSplit(text string, currentPos, chunkEnd int) int {
	// Prefer a paragraph break inside the chunk window.
	if i := strings.LastIndex(text[currentPos:chunkEnd], "\n\n"); i > 0 {
		return currentPos + i + 2
	}

	// Then the nearest sentence end.
	for i := chunkEnd - 1; i > currentPos; i-- {
		if text[i] == '.' || text[i] == '?' || text[i] == '!' {
			return i + 1
		}
	}

	// Then a word boundary.
	for i := chunkEnd - 1; i > currentPos; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i
		}
	}

	// Hard limit, backed up to a rune boundary.
	for chunkEnd > currentPos && !utf8.RuneStart(text[chunkEnd]) {
		chunkEnd--
	}
	return chunkEnd
}

// pageForOffset returns the page containing the given offset, falling
// back to the last page starting at or before it.
func pageForOffset(spans []pageSpan, offset int) int {
	page := 0
	for _, span := range spans {
		if span.start > offset {
			break
		}
		page = span.num
	}
	return page
}

// cleanText strips control characters in a fixed order, then collapses
// runs of spaces. Order matters: removing a control character can bring
// two spaces together, so collapsing runs last.
func cleanText(text string) string {
	replacements := []struct{ old, new string }{
		{"\u0000", ""},   // Null character
		{"\ufffd", ""},   // Unicode replacement character
		{"\u001b", ""},   // Escape character
		{"\r", ""},       // Carriage return
		{"\f", "\n"},     // Form feed to newline
	}
	cleaned := text
	for _, r := range replacements {
		cleaned = strings.ReplaceAll(cleaned, r.old, r.new)
	}
	for strings.Contains(cleaned, "  ") {
		cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	}
	return strings.TrimSpace(cleaned)
}
