package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/sashabaranov/go-openai"
)

const embeddingBatchSize = 100

// Embedder turns text into vectors via an external embedding model.
type Embedder interface {
	// EmbedTexts returns one vector per input text, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	// Configured reports whether an embedding credential is present.
	Configured() bool
}

var ErrEmbeddingUnconfigured = errors.New("embedding model not configured")

// OpenAIEmbedder batches embedding requests against an OpenAI-compatible
// endpoint and retries transient failures with exponential backoff.
type OpenAIEmbedder struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	batchSize int
}

func NewOpenAIEmbedder(baseURL, apiKey, model string) *OpenAIEmbedder {
	e := &OpenAIEmbedder{
		model:     openai.EmbeddingModel(model),
		batchSize: embeddingBatchSize,
	}
	if apiKey == "" {
		return e
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	e.client = openai.NewClientWithConfig(config)
	return e
}

func (e *OpenAIEmbedder) Configured() bool {
	return e.client != nil
}

func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if e.client == nil {
		return nil, ErrEmbeddingUnconfigured
	}
	if len(texts) == 0 {
		return nil, nil
	}

	var embeddings [][]float32
	for i := 0; i < len(texts); i += e.batchSize {
		end := i + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := e.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embedding batch %d-%d: %w", i, end, err)
		}
		embeddings = append(embeddings, batch...)
	}
	return embeddings, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var embeddings [][]float32

	operation := func() error {
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: e.model,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return backoff.Permanent(fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data)))
		}
		embeddings = make([][]float32, len(resp.Data))
		for i, item := range resp.Data {
			embeddings[i] = item.Embedding
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return embeddings, nil
}
