package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/glowcart/api/internal/services"
)

type stubChatService struct {
	replyFn func(ctx context.Context, message string) (string, error)
}

func (s *stubChatService) ChatResponse(ctx context.Context, message string) (string, error) {
	return s.replyFn(ctx, message)
}

func newChatRouter(service services.ChatService) chi.Router {
	router := chi.NewRouter()
	NewChatHandlers(service).Routes(router)
	return router
}

func TestChatReturnsResponse(t *testing.T) {
	router := newChatRouter(&stubChatService{
		replyFn: func(ctx context.Context, message string) (string, error) {
			if message != "what helps dull skin?" {
				t.Fatalf("unexpected message %q", message)
			}
			return "Try our vitamin C serum.", nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"message":"what helps dull skin?"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp chatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Response != "Try our vitamin C serum." {
		t.Fatalf("unexpected response %q", resp.Response)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	router := newChatRouter(&stubChatService{
		replyFn: func(ctx context.Context, message string) (string, error) {
			t.Fatal("service must not be called for empty messages")
			return "", nil
		},
	})

	for _, body := range []string{"", `{}`, `{"message":"   "}`} {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestChatUpstreamTextIsReturnedVerbatim(t *testing.T) {
	// Upstream failures are reply text per the completion contract, so the
	// endpoint still answers 200 with the diagnostic string.
	router := newChatRouter(&stubChatService{
		replyFn: func(ctx context.Context, message string) (string, error) {
			return "Error: 500 - upstream down", nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"message":"hello"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp chatResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Response != "Error: 500 - upstream down" {
		t.Fatalf("unexpected response %q", resp.Response)
	}
}

func TestChatLocalFailureIs500(t *testing.T) {
	router := newChatRouter(&stubChatService{
		replyFn: func(ctx context.Context, message string) (string, error) {
			return "", fmt.Errorf("%w: context canceled", services.ErrChatUnavailable)
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"message":"hello"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
