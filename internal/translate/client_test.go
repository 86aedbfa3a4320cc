package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestClient_Translate(t *testing.T) {
	var got translateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(translateResponse{Translated: "  안녕하세요  "})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, "translate-1", zerolog.Nop())
	out, err := c.Translate(context.Background(), "Hello", "en", "ko")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "안녕하세요" {
		t.Errorf("translated = %q, want trimmed %q", out, "안녕하세요")
	}
	if got.From != "English" || got.To != "Korean" {
		t.Errorf("languages sent as %q -> %q, want display names", got.From, got.To)
	}
	if got.Model != "translate-1" {
		t.Errorf("model = %q, want translate-1", got.Model)
	}
}

func TestClient_TranslateEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(translateResponse{Translated: "   "})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, "", zerolog.Nop())
	if _, err := c.Translate(context.Background(), "Hello", "en", "ko"); err == nil {
		t.Error("expected error for empty translation result")
	}
}

func TestClient_TranslateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, "", zerolog.Nop())
	if _, err := c.Translate(context.Background(), "Hello", "en", "ko"); err == nil {
		t.Error("expected error for non-200 status")
	}
}

func TestClient_Detect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(detectResponse{Code: " VI ", Confidence: 0.92})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, "", zerolog.Nop())
	code, err := c.Detect(context.Background(), "xin chào")
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if code != "vi" {
		t.Errorf("code = %q, want vi", code)
	}
}

func TestClient_DetectEmptyCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(detectResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, "", zerolog.Nop())
	if _, err := c.Detect(context.Background(), "hello"); err == nil {
		t.Error("expected error for empty language code")
	}
}
