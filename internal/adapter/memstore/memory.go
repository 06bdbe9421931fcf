package memstore

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"docrank/internal/domain"
	"docrank/internal/port"
)

// MemorySource holds documents in memory, keyed by name. Page breaks are
// form feeds, as in plain-text documents on disk.
type MemorySource struct {
	mu   sync.RWMutex
	docs map[string][]string
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		docs: make(map[string][]string),
	}
}

// Put stores or replaces a document.
func (s *MemorySource) Put(name, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = strings.Split(content, "\f")
}

func (s *MemorySource) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
}

func (s *MemorySource) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string][]string)
}

// Names returns the stored document names in sorted order.
func (s *MemorySource) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PageCount returns the total number of pages across all documents.
func (s *MemorySource) PageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, pages := range s.docs {
		total += len(pages)
	}
	return total
}

func (s *MemorySource) Open(path string) (port.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pages, ok := s.docs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentUnavailable, path)
	}
	// Copy so a later Put does not change an open document.
	return &memoryDocument{pages: append([]string(nil), pages...)}, nil
}

type memoryDocument struct {
	pages []string
}

func (d *memoryDocument) PageCount() int {
	return len(d.pages)
}

func (d *memoryDocument) PageText(i int) (string, error) {
	if i < 1 || i > len(d.pages) {
		return "", fmt.Errorf("page %d out of range 1..%d", i, len(d.pages))
	}
	return d.pages[i-1], nil
}

func (d *memoryDocument) Close() error {
	return nil
}
