package service

import (
	"context"

	"github.com/tieubaoca/study-assistant-be/types"
)

// AIService is the text-generation model behind answering and quiz
// generation. A single blocking exchange per call, no tool use.
type AIService interface {
	Chat(ctx context.Context, prompt string, messages []types.Message) (string, error)
	// Configured reports whether a generation credential is present.
	Configured() bool
}
