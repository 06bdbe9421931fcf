package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"docrank/internal/domain"
)

func TestTextSourcePages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("Page One Title\nbody\fPage Two Title\nmore"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := NewTextSource().Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount())
	}
	text, err := doc.PageText(2)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Page Two Title\nmore" {
		t.Errorf("unexpected page text %q", text)
	}
	if _, err := doc.PageText(3); err == nil {
		t.Error("expected out of range error")
	}
}

func TestMultiSourceMissingFile(t *testing.T) {
	_, err := NewMultiSource().Open(filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, domain.ErrDocumentUnavailable) {
		t.Errorf("expected ErrDocumentUnavailable, got %v", err)
	}
}

func TestMultiSourceCorruptPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.PDF")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := NewMultiSource().Open(path)
	if !errors.Is(err, domain.ErrDocumentUnavailable) {
		t.Errorf("expected ErrDocumentUnavailable, got %v", err)
	}
}

func TestMultiSourceText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(path, []byte("Single Page Heading"), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := NewMultiSource().Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	if doc.PageCount() != 1 {
		t.Errorf("expected 1 page, got %d", doc.PageCount())
	}
}
