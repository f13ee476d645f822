package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tieubaoca/study-assistant-be/repository"
	"github.com/tieubaoca/study-assistant-be/types"
)

// UnconfiguredAnswer is returned instead of a model call when no
// generation credential is present. It is a successful response, not an
// error.
const UnconfiguredAnswer = "AI chat is not configured. Please add your OPENAI_API_KEY to the .env file to enable AI-powered chat."

const citationSnippetLen = 100

// ChatService answers questions about a document by retrieving relevant
// chunks and grounding a single generation call in them. Citations are
// structural: every retrieved chunk becomes one, regardless of whether
// the model used it.
type ChatService struct {
	retriever *Retriever
	ai        AIService
	history   repository.ChatHistoryRepo
	topK      int
	timeout   time.Duration
}

func NewChatService(retriever *Retriever, ai AIService, history repository.ChatHistoryRepo, topK int, timeout time.Duration) *ChatService {
	if topK <= 0 {
		topK = DefaultRetrievalTopK
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChatService{
		retriever: retriever,
		ai:        ai,
		history:   history,
		topK:      topK,
		timeout:   timeout,
	}
}

// Answer retrieves context for the question and generates a grounded
// answer with citations. With no generation credential it returns the
// fixed configuration-missing message and empty citations.
func (s *ChatService) Answer(ctx context.Context, question, documentID string, history []types.Message) (*types.ChatResponse, error) {
	if s.ai == nil || !s.ai.Configured() {
		return &types.ChatResponse{
			Response:  UnconfiguredAnswer,
			Citations: []types.Citation{},
		}, nil
	}

	chunks, err := s.retriever.Retrieve(ctx, documentID, question, s.topK)
	if err != nil {
		return nil, err
	}

	prompt := buildAnswerPrompt(question, chunks)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	answer, err := s.ai.Chat(callCtx, prompt, history)
	if err != nil {
		return nil, fmt.Errorf("answer generation failed: %w", err)
	}

	citations := make([]types.Citation, 0, len(chunks))
	for _, chunk := range chunks {
		citations = append(citations, types.Citation{
			Page: chunk.Page,
			Text: snippet(chunk.Content, citationSnippetLen),
		})
	}

	response := &types.ChatResponse{
		Response:  answer,
		Citations: citations,
	}
	s.saveHistory(ctx, documentID, question, response)
	return response, nil
}

// saveHistory is best effort; chat must not fail because persistence did.
func (s *ChatService) saveHistory(ctx context.Context, documentID, question string, response *types.ChatResponse) {
	if s.history == nil {
		return
	}
	now := time.Now().Unix()
	entries := []*types.ChatHistoryEntry{
		{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			Sender:     types.ChatSenderUser,
			Text:       question,
			CreatedAt:  now,
		},
		{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			Sender:     types.ChatSenderBot,
			Text:       response.Response,
			Citations:  response.Citations,
			CreatedAt:  now,
		},
	}
	for _, entry := range entries {
		if err := s.history.AppendMessage(ctx, entry); err != nil {
			log.Printf("Failed to save chat history for document %s: %v", documentID, err)
			return
		}
	}
}

func buildAnswerPrompt(question string, chunks []types.ScoredChunk) string {
	var context strings.Builder
	for i, chunk := range chunks {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "[%d] %s", i+1, chunk.Content)
	}

	return fmt.Sprintf(`You are a helpful study assistant. Answer the student's question based on the context from their textbook.

Context from the textbook:
%s

Question: %s

Instructions:
- Answer clearly and concisely
- Use information from the context when possible
- If the context doesn't contain the answer, say so and provide general knowledge if appropriate
- Cite specific parts of the text when relevant (e.g., "According to the text...")
- Be encouraging and supportive

Answer:`, context.String(), question)
}

// snippet truncates text to at most n runes and marks the cut.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
