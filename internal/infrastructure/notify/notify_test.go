package notify

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTelegramNotify(t *testing.T) {
	t.Parallel()

	var gotPath, gotChat, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
	}))
	defer server.Close()

	n := NewTelegram("TOKEN", "42")
	n.baseURL = server.URL
	n.client = server.Client()

	if err := n.Notify(context.Background(), "3 editais", "detalhes"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if gotPath != "/botTOKEN/sendMessage" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotChat != "42" {
		t.Fatalf("unexpected chat id: %s", gotChat)
	}
	if gotText != "3 editais\n\ndetalhes" {
		t.Fatalf("unexpected text: %q", gotText)
	}
}

func TestTelegramMisconfigured(t *testing.T) {
	t.Parallel()

	n := NewTelegram("", "")
	if err := n.Notify(context.Background(), "s", "b"); err == nil {
		t.Fatal("expected an error without token and chat id")
	}
}

func TestWebhookNotify(t *testing.T) {
	t.Parallel()

	var gotBody, gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhook(server.URL)
	n.client = server.Client()

	if err := n.Notify(context.Background(), "3 editais", "detalhes"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if gotBody != "3 editais\n\ndetalhes" {
		t.Fatalf("unexpected payload: %q", gotBody)
	}
	if !strings.HasPrefix(gotType, "text/plain") {
		t.Fatalf("unexpected content type: %s", gotType)
	}
}

func TestWebhookErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	n := NewWebhook(server.URL)
	n.client = server.Client()

	if err := n.Notify(context.Background(), "s", "b"); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) Notify(ctx context.Context, subject, body string) error {
	s.calls++
	return s.err
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	t.Parallel()

	first := &stubNotifier{err: errors.New("down")}
	second := &stubNotifier{}
	third := &stubNotifier{}

	chain := NewChain(nil, first, second, third)
	if err := chain.Notify(context.Background(), "s", "b"); err != nil {
		t.Fatalf("Notify error: %v", err)
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("expected fallback to second notifier, got %d/%d calls", first.calls, second.calls)
	}
	if third.calls != 0 {
		t.Fatalf("third notifier must not be tried after a success, got %d calls", third.calls)
	}
}

func TestChainReportsAllFailures(t *testing.T) {
	t.Parallel()

	first := &stubNotifier{err: errors.New("telegram down")}
	second := &stubNotifier{err: errors.New("webhook down")}

	chain := NewChain(nil, first, second)
	err := chain.Notify(context.Background(), "s", "b")
	if err == nil {
		t.Fatal("expected an error when every notifier fails")
	}
	if !strings.Contains(err.Error(), "telegram down") || !strings.Contains(err.Error(), "webhook down") {
		t.Fatalf("expected both failures reported, got %v", err)
	}
}

func TestChainWithoutNotifiers(t *testing.T) {
	t.Parallel()

	chain := NewChain(nil)
	if err := chain.Notify(context.Background(), "s", "b"); err == nil {
		t.Fatal("expected an error for an empty chain")
	}
	if chain.Len() != 0 {
		t.Fatalf("unexpected chain length: %d", chain.Len())
	}
}
