package routes

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/Manaswi925/ChimeIn/internal/models"
	"github.com/Manaswi925/ChimeIn/internal/moderation"
	"github.com/Manaswi925/ChimeIn/internal/storage"
)

func testRoutes(t *testing.T, rules []string) (*Routes, string) {
	dir := t.TempDir()
	media, err := storage.NewMedia(dir)
	if err != nil {
		t.Fatal(err)
	}
	config := &models.EnvConfig{}
	return &Routes{
		envConfig: config,
		gate:      moderation.NewGate(rules, config, zerolog.Nop()),
		media:     media,
		logger:    zerolog.Nop(),
	}, dir
}

func multipartRequest(t *testing.T, content string, withMedia bool) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("content", content); err != nil {
		t.Fatal(err)
	}
	if withMedia {
		fw, err := w.CreateFormFile("media", "cat.png")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte("not really a png")); err != nil {
			t.Fatal(err)
		}
	}
	w.Close()

	req := httptest.NewRequest("POST", "/communities/books/posts", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestReadContentAndMediaStagesUpload(t *testing.T) {
	routes, _ := testRoutes(t, nil)

	content, mediaPath, err := routes.readContentAndMedia(multipartRequest(t, "hello", true))
	if err != nil {
		t.Fatalf("readContentAndMedia() = %v, want nil", err)
	}
	if content != "hello" {
		t.Errorf("content = %q, want %q", content, "hello")
	}
	if mediaPath == "" {
		t.Fatal("Expected a staged media path")
	}
	if _, err := os.Stat(mediaPath); err != nil {
		t.Errorf("Staged file should exist: %v", err)
	}
}

func TestPostPostRollsBackFlaggedUpload(t *testing.T) {
	routes, dir := testRoutes(t, []string{"spam"})

	rec := httptest.NewRecorder()
	routes.PostPost(rec, multipartRequest(t, "buy my SPAM pills", true))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), moderation.ReasonRuleMatch) {
		t.Errorf("Response should carry the verdict reason, got %q", rec.Body.String())
	}
	// The staged upload must be rolled back
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no media files after rollback, got %d", len(entries))
	}
}

func TestPostPendingPostRollsBackFlaggedUpload(t *testing.T) {
	routes, dir := testRoutes(t, []string{"spam"})

	rec := httptest.NewRecorder()
	routes.PostPendingPost(rec, multipartRequest(t, "more spam here", true))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no media files after rollback, got %d", len(entries))
	}
}
