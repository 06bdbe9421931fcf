package memstore

import (
	"errors"
	"testing"

	"docrank/internal/domain"
)

func TestMemorySourcePages(t *testing.T) {
	s := NewMemorySource()
	s.Put("guide.txt", "Page One Title\nbody\fPage Two Title\nmore")

	doc, err := s.Open("guide.txt")
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
		t.Error("expected error for out-of-range page")
	}
}

func TestMemorySourceMissing(t *testing.T) {
	s := NewMemorySource()

	_, err := s.Open("nope.txt")
	if !errors.Is(err, domain.ErrDocumentUnavailable) {
		t.Errorf("expected ErrDocumentUnavailable, got %v", err)
	}
}

func TestMemorySourceNamesAndClear(t *testing.T) {
	s := NewMemorySource()
	s.Put("b.txt", "x")
	s.Put("a.txt", "y\fz")

	names := s.Names()
	if len(names) != 2 || names[0] != "a.txt" || names[1] != "b.txt" {
		t.Errorf("unexpected names %v", names)
	}
	if s.PageCount() != 3 {
		t.Errorf("expected 3 pages, got %d", s.PageCount())
	}

	s.Delete("b.txt")
	if len(s.Names()) != 1 {
		t.Errorf("expected 1 document after delete, got %v", s.Names())
	}

	s.Clear()
	if len(s.Names()) != 0 {
		t.Errorf("expected empty source after clear, got %v", s.Names())
	}
}

func TestMemorySourceOpenIsSnapshot(t *testing.T) {
	s := NewMemorySource()
	s.Put("a.txt", "first")

	doc, err := s.Open("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	s.Put("a.txt", "second")

	text, _ := doc.PageText(1)
	if text != "first" {
		t.Errorf("open document changed after Put: %q", text)
	}
}
