package coach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatBackend(t *testing.T, reply string, gotReq *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 0,
			"model":   gotReq.Model,
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": reply,
					},
				},
			},
		})
	}))
}

func TestReplySendsSystemThenUser(t *testing.T) {
	var req chatRequest
	srv := chatBackend(t, "Try writing down one goal for tomorrow.", &req)
	defer srv.Close()

	e := New(srv.URL+"/v1", "llama3.1:8b", "You are a coach.", 5*time.Second)

	got, err := e.Reply(context.Background(), "I feel stuck at work")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}

	if got != "Try writing down one goal for tomorrow." {
		t.Errorf("reply = %q", got)
	}
	if req.Model != "llama3.1:8b" {
		t.Errorf("model = %q", req.Model)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("sent %d messages, want exactly 2", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[0].Content != "You are a coach." {
		t.Errorf("first message = %+v, want the system persona", req.Messages[0])
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "I feel stuck at work" {
		t.Errorf("second message = %+v, want the user text", req.Messages[1])
	}
}

func TestReplyTrimsContent(t *testing.T) {
	var req chatRequest
	srv := chatBackend(t, "  spaced out reply \n", &req)
	defer srv.Close()

	e := New(srv.URL+"/v1", "m", "p", 5*time.Second)

	got, err := e.Reply(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if got != "spaced out reply" {
		t.Errorf("reply = %q, want trimmed content", got)
	}
}

func TestReplyEmptySystemPromptUsesDefault(t *testing.T) {
	var req chatRequest
	srv := chatBackend(t, "ok", &req)
	defer srv.Close()

	e := New(srv.URL+"/v1", "m", "", 5*time.Second)

	if _, err := e.Reply(context.Background(), "hi"); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	if req.Messages[0].Content != DefaultSystemPrompt {
		t.Error("default persona was not applied")
	}
}

func TestReplyBackendDownIsGenerationError(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close() // connection refused from here on

	e := New(srv.URL+"/v1", "m", "p", 2*time.Second)

	_, err := e.Reply(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error from dead backend")
	}
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("error %T is not a GenerationError", err)
	}
}

func TestReplyEmptyChoicesIsGenerationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","created":0,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	e := New(srv.URL+"/v1", "m", "p", 2*time.Second)

	_, err := e.Reply(context.Background(), "hi")
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("expected GenerationError, got %v", err)
	}
}
