package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/study-assistant-be/database"
	"github.com/tieubaoca/study-assistant-be/service"
	"github.com/tieubaoca/study-assistant-be/types"
)

type stubAI struct {
	response   string
	configured bool
}

func (s *stubAI) Chat(ctx context.Context, prompt string, messages []types.Message) (string, error) {
	return s.response, nil
}

func (s *stubAI) Configured() bool { return s.configured }

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func (s *stubEmbedder) Configured() bool { return s.err == nil }

type stubQuizResults struct {
	results []*types.QuizResult
	err     error
}

func (s *stubQuizResults) CreateQuizResult(ctx context.Context, result *types.QuizResult) error {
	if s.err != nil {
		return s.err
	}
	s.results = append(s.results, result)
	return nil
}

func (s *stubQuizResults) ListQuizResults(ctx context.Context) ([]*types.QuizResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func newChatService(t *testing.T, ai service.AIService, embedder service.Embedder) *service.ChatService {
	t.Helper()
	indexes, err := database.NewIndexManager(t.TempDir(), 4)
	require.NoError(t, err)
	t.Cleanup(indexes.Close)
	retriever := service.NewRetriever(embedder, indexes)
	return service.NewChatService(retriever, ai, nil, 3, time.Second)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) types.DataResponse {
	t.Helper()
	var resp types.DataResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleChatValidation(t *testing.T) {
	h := NewChatHandler(newChatService(t, &stubAI{configured: false}, &stubEmbedder{}))

	rec := httptest.NewRecorder()
	h.HandleChat()(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleChat()(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.HandleChat()(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChatUnconfigured(t *testing.T) {
	h := NewChatHandler(newChatService(t, &stubAI{configured: false}, &stubEmbedder{}))

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"message":"what is inertia?","document_id":"doc-1"}`)
	h.HandleChat()(rec, httptest.NewRequest(http.MethodPost, "/api/chat", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, service.UnconfiguredAnswer, data["response"])
}

func TestHandleChatDocumentNotReady(t *testing.T) {
	// Embeddings work but no index exists for the document, so retrieval
	// is unavailable.
	h := NewChatHandler(newChatService(t, &stubAI{configured: true, response: "hi"}, &stubEmbedder{}))

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"message":"question","document_id":"missing-doc"}`)
	h.HandleChat()(rec, httptest.NewRequest(http.MethodPost, "/api/chat", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Status)
	assert.Equal(t, "Document is not ready for chat yet", resp.Message)
}

func newQuizHandler(t *testing.T, results *stubQuizResults) *QuizHandler {
	t.Helper()
	indexes, err := database.NewIndexManager(t.TempDir(), 4)
	require.NoError(t, err)
	t.Cleanup(indexes.Close)
	retriever := service.NewRetriever(&stubEmbedder{err: errors.New("embed down")}, indexes)
	quizService := service.NewQuizService(retriever, &stubAI{configured: false}, time.Second)
	return NewQuizHandler(quizService, results)
}

func TestHandleGenerateQuiz(t *testing.T) {
	h := newQuizHandler(t, &stubQuizResults{})

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"document_id":"doc-1","type":"mcq"}`)
	h.HandleGenerateQuiz()(rec, httptest.NewRequest(http.MethodPost, "/api/generate-quiz", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	questions, ok := data["questions"].([]interface{})
	require.True(t, ok)
	assert.Len(t, questions, 5)
}

func TestHandleGenerateQuizValidation(t *testing.T) {
	h := newQuizHandler(t, &stubQuizResults{})

	rec := httptest.NewRecorder()
	h.HandleGenerateQuiz()(rec, httptest.NewRequest(http.MethodPost, "/api/generate-quiz", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	body := strings.NewReader(`{"document_id":"doc-1","type":"essay"}`)
	h.HandleGenerateQuiz()(rec, httptest.NewRequest(http.MethodPost, "/api/generate-quiz", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSaveQuizResult(t *testing.T) {
	results := &stubQuizResults{}
	h := newQuizHandler(t, results)

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"document_id":"doc-1","score":80,"total_questions":5,"correct_answers":4}`)
	h.HandleSaveQuizResult()(rec, httptest.NewRequest(http.MethodPost, "/api/save-quiz-result", body))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, results.results, 1)
	saved := results.results[0]
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Unknown PDF", saved.DocumentName)
	assert.Equal(t, 80, saved.Score)
	assert.NotZero(t, saved.TakenAt)
}

func TestHandleProgress(t *testing.T) {
	results := &stubQuizResults{results: []*types.QuizResult{
		{DocumentName: "Physics", Score: 90},
	}}
	h := NewProgressHandler(service.NewProgressService(results))

	rec := httptest.NewRecorder()
	h.HandleProgress()(rec, httptest.NewRequest(http.MethodGet, "/api/progress", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 1, data["total_quizzes"])
	assert.EqualValues(t, 90, data["average_score"])
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealth()(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Status)
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/chat", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
