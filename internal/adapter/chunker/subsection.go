package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"docrank/internal/domain"
)

const DefaultMinFragmentLength = 25

// fragmentBoundary matches a run of blank lines or a bullet marker. RE2's \s
// is ASCII only, so the class also lists the Unicode spaces PDF text carries
// (no-break space, vertical tab, NEL, separators).
var fragmentBoundary = regexp.MustCompile(`\n` + unicodeSpace + `*\n|•` + unicodeSpace + `+`)

const unicodeSpace = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

// SubsectionSplitter breaks section context into paragraph and bullet fragments.
type SubsectionSplitter struct {
	minLen int
}

// NewSubsectionSplitter creates a splitter keeping fragments longer than
// minLen runes.
func NewSubsectionSplitter(minLen int) *SubsectionSplitter {
	if minLen < 0 {
		minLen = DefaultMinFragmentLength
	}
	return &SubsectionSplitter{minLen: minLen}
}

// Split returns the trimmed fragments of text longer than the minimum
// length, in their original order.
func (s *SubsectionSplitter) Split(text string) []string {
	var fragments []string
	for _, candidate := range fragmentBoundary.Split(text, -1) {
		candidate = strings.TrimSpace(candidate)
		if utf8.RuneCountInString(candidate) > s.minLen {
			fragments = append(fragments, candidate)
		}
	}
	return fragments
}

// Refine splits each section and keeps at most maxPerSection fragments from
// it. Fragments inherit the section's document and page.
func (s *SubsectionSplitter) Refine(sections []domain.Section, maxPerSection int) []domain.Fragment {
	if maxPerSection < 0 {
		maxPerSection = 0
	}

	var out []domain.Fragment
	for _, sec := range sections {
		parts := s.Split(sec.ContextText)
		if len(parts) > maxPerSection {
			parts = parts[:maxPerSection]
		}
		for _, p := range parts {
			out = append(out, domain.Fragment{
				SourceDocument: sec.SourceDocument,
				PageNumber:     sec.PageNumber,
				Text:           p,
			})
		}
	}
	return out
}
