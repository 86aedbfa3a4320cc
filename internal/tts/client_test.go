package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestClient_Synthesize(t *testing.T) {
	var got synthesizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(synthesizeResponse{AudioBase64: "AAEC"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	b64, err := c.Synthesize(context.Background(), "안녕하세요", "aria", "speech-1")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if b64 != "AAEC" {
		t.Errorf("audio = %q, want AAEC", b64)
	}
	if got.Text != "안녕하세요" || got.VoiceName != "aria" || got.Model != "speech-1" {
		t.Errorf("request = %+v", got)
	}
}

func TestClient_SynthesizeEmptyAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(synthesizeResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	if _, err := c.Synthesize(context.Background(), "hello", "aria", "speech-1"); err == nil {
		t.Error("expected error for empty audio")
	}
}

func TestClient_SynthesizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	if _, err := c.Synthesize(context.Background(), "hello", "aria", "speech-1"); err == nil {
		t.Error("expected error for non-200 status")
	}
}
