package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*GeminiClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewGeminiClient(GeminiClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		RetryWait:  10 * time.Millisecond,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func candidateBody(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"parts": []map[string]string{{"text": text}},
				"role":  "model",
			}},
		},
	})
	return string(body)
}

func TestGeminiCompleteReturnsCandidateText(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(candidateBody("Try our vitamin C serum.")))
	})

	reply, err := client.Complete(context.Background(), "what should I use for dull skin?")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != "Try our vitamin C serum." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if gotPath != "/v1beta/models/gemini-2.0-flash:generateContent" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 {
		t.Fatalf("unexpected request shape: %+v", gotBody)
	}
	if gotBody.Contents[0].Parts[0].Text != "what should I use for dull skin?" {
		t.Fatalf("unexpected prompt %q", gotBody.Contents[0].Parts[0].Text)
	}
	if gotBody.GenerationConfig.Temperature != 0.7 || gotBody.GenerationConfig.MaxOutputTokens != 1024 {
		t.Fatalf("unexpected generation config: %+v", gotBody.GenerationConfig)
	}
}

func TestGeminiCompleteRetriesOnceAfterRateLimit(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
			return
		}
		w.Write([]byte(candidateBody("recovered")))
	})

	reply, err := client.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != "recovered" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestGeminiCompleteGivesUpAfterSecondRateLimit(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("quota exceeded"))
	})

	reply, err := client.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", calls)
	}
	if !strings.HasPrefix(reply, "Error: 429 - ") {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestGeminiCompleteRendersNonRetryableStatusAsText(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream down"))
	})

	reply, err := client.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if reply != "Error: 500 - upstream down" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestGeminiCompleteSurfacesEmbeddedAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":400,"message":"invalid model","status":"INVALID_ARGUMENT"}}`))
	})

	reply, err := client.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != "API Error: invalid model" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestGeminiCompleteReportsMissingCandidates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	reply, err := client.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.HasPrefix(reply, "No candidates found in response.") {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestGeminiCompleteFallsBackWhenTextMissing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[],"role":"model"}}]}`))
	})

	reply, err := client.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != "No response" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestGeminiCompleteHonorsContextDuringRetryWait(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	// Make the wait long enough that only cancellation can end it promptly.
	client.retryWait = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Complete(ctx, "hello")
	if err == nil {
		t.Fatal("expected context error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("wait was not interrupted, took %v", elapsed)
	}
}

func TestNewGeminiClientRequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiClient(GeminiClientConfig{}); err == nil {
		t.Fatal("expected error without api key")
	}
}
