package line_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aishoubot/aishou/internal/line"
)

func TestPush(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := line.NewClient("token-123", line.WithBaseURL(srv.URL))
	if err := c.Push(context.Background(), "user-1", line.NewTextMessage("hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v2/bot/message/push" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if gotBody["to"] != "user-1" {
		t.Fatalf("unexpected to: %v", gotBody["to"])
	}
	messages, ok := gotBody["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("unexpected messages: %v", gotBody["messages"])
	}
}

func TestReply(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/bot/message/reply" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := line.NewClient("token", line.WithBaseURL(srv.URL))
	if err := c.Reply(context.Background(), "reply-token-1", line.NewTextMessage("wait")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["replyToken"] != "reply-token-1" {
		t.Fatalf("unexpected reply token: %v", gotBody["replyToken"])
	}
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/bot/profile/user-1" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"userId": "user-1", "displayName": "Alice"})
	}))
	defer srv.Close()

	c := line.NewClient("token", line.WithBaseURL(srv.URL))
	profile, err := c.GetProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.DisplayName != "Alice" {
		t.Fatalf("unexpected display name: %s", profile.DisplayName)
	}
}

func TestGetMessageContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/bot/message/msg-1/content" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		io.WriteString(w, "transcript text")
	}))
	defer srv.Close()

	c := line.NewClient("token", line.WithDataBaseURL(srv.URL))
	body, err := c.GetMessageContent(context.Background(), "msg-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "transcript text" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message":"invalid token"}`)
	}))
	defer srv.Close()

	c := line.NewClient("bad-token", line.WithBaseURL(srv.URL))
	err := c.Push(context.Background(), "user-1", line.NewTextMessage("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *line.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
	if apiErr.Message != "invalid token" {
		t.Fatalf("unexpected message: %q", apiErr.Message)
	}
}
