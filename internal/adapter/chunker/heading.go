package chunker

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"docrank/internal/domain"
	"docrank/internal/port"
)

const (
	DefaultMinTitleLength = 6
	DefaultContextLines   = 5
)

// headingCharset is the only character class a heading may contain.
var headingCharset = regexp.MustCompile(`^[A-Za-z0-9 ,\-:'&]+$`)

// HeadingExtractor turns raw page text into sections by treating short,
// capitalised, punctuation-free lines as headings.
type HeadingExtractor struct {
	minTitleLen  int
	contextLines int
}

// NewHeadingExtractor creates an extractor for titles longer than
// minTitleLen runes, each followed by up to contextLines lines of context.
func NewHeadingExtractor(minTitleLen, contextLines int) *HeadingExtractor {
	if minTitleLen < 0 {
		minTitleLen = DefaultMinTitleLength
	}
	if contextLines < 0 {
		contextLines = DefaultContextLines
	}
	return &HeadingExtractor{
		minTitleLen:  minTitleLen,
		contextLines: contextLines,
	}
}

// IsHeading reports whether line would be detected as a heading with the
// default title length.
func IsHeading(line string) bool {
	return isHeading(strings.TrimSpace(line), DefaultMinTitleLength)
}

// isHeading expects an already trimmed line.
func isHeading(clean string, minLen int) bool {
	if utf8.RuneCountInString(clean) <= minLen {
		return false
	}
	if allDigits(clean) {
		return false
	}
	first, _ := utf8.DecodeRuneInString(clean)
	if !unicode.IsUpper(first) {
		return false
	}
	return headingCharset.MatchString(clean)
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// Extract returns one section per heading line on the page. Context windows
// stop at the end of the page and may overlap between nearby headings.
func (e *HeadingExtractor) Extract(pageText string, pageNumber int) []domain.Section {
	lines := strings.Split(pageText, "\n")

	var sections []domain.Section
	for i, line := range lines {
		clean := strings.TrimSpace(line)
		if !isHeading(clean, e.minTitleLen) {
			continue
		}

		end := i + 1 + e.contextLines
		if end > len(lines) {
			end = len(lines)
		}

		sections = append(sections, domain.Section{
			Title:       clean,
			PageNumber:  pageNumber,
			ContextText: strings.Join(lines[i+1:end], "\n"),
		})
	}

	return sections
}

// ExtractDocument runs Extract over every page of doc and tags each section
// with name.
func (e *HeadingExtractor) ExtractDocument(ctx context.Context, doc port.Document, name string) ([]domain.Section, error) {
	var sections []domain.Section

	for page := 1; page <= doc.PageCount(); page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := doc.PageText(page)
		if err != nil {
			return nil, fmt.Errorf("%w: %s page %d: %v", domain.ErrDocumentUnavailable, name, page, err)
		}

		for _, s := range e.Extract(text, page) {
			s.SourceDocument = name
			sections = append(sections, s)
		}
	}

	return sections, nil
}
