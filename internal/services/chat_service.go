package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrChatInvalidInput indicates an empty chat message.
	ErrChatInvalidInput = errors.New("chat: message is required")
	// ErrChatUnavailable indicates the completion client failed locally,
	// for example through context cancellation.
	ErrChatUnavailable = errors.New("chat: unavailable")
)

// chatCompletionClient abstracts the generative API client for easier testing.
type chatCompletionClient interface {
	Complete(ctx context.Context, message string) (string, error)
}

// ChatServiceDeps wires the dependencies required by the chat service.
type ChatServiceDeps struct {
	Completions chatCompletionClient
	Logger      func(ctx context.Context, event string, fields map[string]any)
}

type chatService struct {
	completions chatCompletionClient
	logger      func(ctx context.Context, event string, fields map[string]any)
}

// NewChatService constructs a ChatService validating required dependencies.
func NewChatService(deps ChatServiceDeps) (ChatService, error) {
	if deps.Completions == nil {
		return nil, errors.New("chat service: completion client is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &chatService{
		completions: deps.Completions,
		logger:      logger,
	}, nil
}

// ChatResponse forwards one user message to the completion API. Upstream
// failures arrive as reply text from the client; only local failures surface
// as errors.
func (s *chatService) ChatResponse(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrChatInvalidInput
	}
	reply, err := s.completions.Complete(ctx, message)
	if err != nil {
		s.logger(ctx, "chat.completion_failed", map[string]any{
			"error": err.Error(),
		})
		return "", fmt.Errorf("%w: %v", ErrChatUnavailable, err)
	}
	return reply, nil
}
