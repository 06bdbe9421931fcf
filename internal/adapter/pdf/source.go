// Package pdf provides page-by-page text access to input documents.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"docrank/internal/domain"
	"docrank/internal/port"
)

// PDFSource opens PDF files with ledongthuc/pdf.
type PDFSource struct{}

func NewPDFSource() *PDFSource {
	return &PDFSource{}
}

func (s *PDFSource) Open(path string) (doc port.Document, err error) {
	// The parser panics on some malformed files instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %s: malformed pdf: %v", domain.ErrDocumentUnavailable, path, r)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDocumentUnavailable, path, err)
	}

	return &pdfDocument{file: f, reader: reader}, nil
}

type pdfDocument struct {
	file   *os.File
	reader *pdflib.Reader
}

func (d *pdfDocument) PageCount() int {
	return d.reader.NumPage()
}

// PageText returns the plain text of page i. Pages without content or whose
// text cannot be decoded read as empty.
func (d *pdfDocument) PageText(i int) (text string, err error) {
	if i < 1 || i > d.reader.NumPage() {
		return "", fmt.Errorf("page %d out of range 1..%d", i, d.reader.NumPage())
	}

	defer func() {
		if recover() != nil {
			text, err = "", nil
		}
	}()

	page := d.reader.Page(i)
	if page.V.IsNull() {
		return "", nil
	}

	text, err = page.GetPlainText(nil)
	if err != nil {
		return "", nil
	}
	return text, nil
}

func (d *pdfDocument) Close() error {
	return d.file.Close()
}

// TextSource reads plain text files. Form feeds separate pages.
type TextSource struct{}

func NewTextSource() *TextSource {
	return &TextSource{}
}

func (s *TextSource) Open(path string) (port.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDocumentUnavailable, path, err)
	}
	return &textDocument{pages: strings.Split(string(data), "\f")}, nil
}

type textDocument struct {
	pages []string
}

func (d *textDocument) PageCount() int {
	return len(d.pages)
}

func (d *textDocument) PageText(i int) (string, error) {
	if i < 1 || i > len(d.pages) {
		return "", fmt.Errorf("page %d out of range 1..%d", i, len(d.pages))
	}
	return d.pages[i-1], nil
}

func (d *textDocument) Close() error {
	return nil
}

// MultiSource picks a source by file extension: .pdf files go to the PDF
// source and everything else is read as plain text.
type MultiSource struct {
	pdf  port.PageSource
	text port.PageSource
}

func NewMultiSource() *MultiSource {
	return &MultiSource{
		pdf:  NewPDFSource(),
		text: NewTextSource(),
	}
}

func (s *MultiSource) Open(path string) (port.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentUnavailable, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return s.pdf.Open(path)
	}
	return s.text.Open(path)
}
