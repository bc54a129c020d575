package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTelegramNotify(t *testing.T) {
	var gotPath, gotChatID, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse form: %v", err)
		}
		gotChatID = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewTelegramNotifier("test-token", "12345", 5*time.Second)
	notifier.apiURL = server.URL

	if err := notifier.Notify(context.Background(), "Trending video!"); err != nil {
		t.Fatal(err)
	}

	if gotPath != "/bottest-token/sendMessage" {
		t.Errorf("Unexpected request path: %s", gotPath)
	}
	if gotChatID != "12345" {
		t.Errorf("Expected chat_id '12345', got '%s'", gotChatID)
	}
	if gotText != "Trending video!" {
		t.Errorf("Expected text 'Trending video!', got '%s'", gotText)
	}
}

func TestTelegramNotifyFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false,"description":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	notifier := NewTelegramNotifier("bad-token", "12345", 5*time.Second)
	notifier.apiURL = server.URL

	if err := notifier.Notify(context.Background(), "hello"); err == nil {
		t.Error("Expected error for non-200 response")
	}
}

func TestNoopNotifier(t *testing.T) {
	var n Notifier = NoopNotifier{}
	if err := n.Notify(context.Background(), "anything"); err != nil {
		t.Errorf("NoopNotifier should never fail, got %v", err)
	}
}
