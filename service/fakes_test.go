package service

import (
	"context"
	"errors"

	"github.com/tieubaoca/study-assistant-be/types"
)

// fakeAI is a scripted AIService for tests.
type fakeAI struct {
	response    string
	err         error
	configured  bool
	lastPrompt  string
	lastHistory []types.Message
}

func (f *fakeAI) Chat(ctx context.Context, prompt string, messages []types.Message) (string, error) {
	f.lastPrompt = prompt
	f.lastHistory = messages
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeAI) Configured() bool {
	return f.configured
}

// fakeEmbedder maps every input text to a fixed vector, or fails.
type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = f.vector
	}
	return vectors, nil
}

func (f *fakeEmbedder) Configured() bool {
	return f.vector != nil
}

// fakeChatHistory records appended entries in memory.
type fakeChatHistory struct {
	entries []*types.ChatHistoryEntry
	err     error
}

func (f *fakeChatHistory) AppendMessage(ctx context.Context, entry *types.ChatHistoryEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeChatHistory) ListMessages(ctx context.Context, documentID string) ([]*types.ChatHistoryEntry, error) {
	var entries []*types.ChatHistoryEntry
	for _, entry := range f.entries {
		if entry.DocumentID == documentID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (f *fakeChatHistory) DeleteMessages(ctx context.Context, documentID string) error {
	kept := f.entries[:0]
	for _, entry := range f.entries {
		if entry.DocumentID != documentID {
			kept = append(kept, entry)
		}
	}
	f.entries = kept
	return nil
}

// fakeDocuments is an in-memory DocumentRepo.
type fakeDocuments struct {
	docs map[string]*types.Document
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{docs: map[string]*types.Document{}}
}

func (f *fakeDocuments) CreateDocument(ctx context.Context, doc *types.Document) error {
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocuments) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, errors.New("document not found")
	}
	return doc, nil
}

func (f *fakeDocuments) ListDocuments(ctx context.Context) ([]*types.Document, error) {
	var docs []*types.Document
	for _, doc := range f.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *fakeDocuments) MarkProcessed(ctx context.Context, id string, pageCount, chunkCount int) error {
	doc, ok := f.docs[id]
	if !ok {
		return errors.New("document not found")
	}
	doc.Processed = true
	doc.PageCount = pageCount
	doc.ChunkCount = chunkCount
	return nil
}

func (f *fakeDocuments) DeleteDocument(ctx context.Context, id string) error {
	delete(f.docs, id)
	return nil
}

// fakeQuizResults is an in-memory QuizResultRepo.
type fakeQuizResults struct {
	results []*types.QuizResult
	err     error
}

func (f *fakeQuizResults) CreateQuizResult(ctx context.Context, result *types.QuizResult) error {
	if f.err != nil {
		return f.err
	}
	f.results = append(f.results, result)
	return nil
}

func (f *fakeQuizResults) ListQuizResults(ctx context.Context) ([]*types.QuizResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}
