package ocr

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMistralClient_Process(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}

		var req struct {
			Model    string `json:"model"`
			Document struct {
				Type        string `json:"type"`
				DocumentURL string `json:"document_url"`
			} `json:"document"`
			IncludeImageBase64 bool `json:"include_image_base64"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if req.Document.Type != "document_url" {
			t.Errorf("document type = %q", req.Document.Type)
		}
		wantURI := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdf)
		if req.Document.DocumentURL != wantURI {
			t.Error("document_url does not carry the base64 PDF")
		}
		if req.IncludeImageBase64 {
			t.Error("include_image_base64 should be false")
		}

		json.NewEncoder(w).Encode(Response{Pages: []Page{{Markdown: "statement text"}}})
	}))
	defer srv.Close()

	client := NewMistralClient("test-key", srv.URL, "test-model")

	resp, err := client.Process(context.Background(), pdf)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	text, err := ExtractText(resp)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "statement text") {
		t.Errorf("text = %q", text)
	}
}

func TestMistralClient_Process_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewMistralClient("k", srv.URL, "m")

	_, err := client.Process(context.Background(), []byte("pdf"))
	if err == nil {
		t.Fatal("expected error")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T: %v", err, err)
	}
	if statusErr.Code != http.StatusTooManyRequests {
		t.Errorf("Code = %d, want %d", statusErr.Code, http.StatusTooManyRequests)
	}
}

func TestMistralClient_Process_Timeout(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		// Drain the body so the server notices the client disconnect and
		// cancels the request context; otherwise srv.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewMistralClient("k", srv.URL, "m")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Process(ctx, []byte("pdf"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("server never received the request")
	}
}

func TestMistralClient_Process_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewMistralClient("k", srv.URL, "m")

	if _, err := client.Process(context.Background(), []byte("pdf")); err == nil {
		t.Fatal("expected decode error")
	}
}
