package analyzer

import "strings"

// InflectionStemmer strips English inflectional endings: plurals and the
// -ed and -ing verb forms. Derivational suffixes such as -ation or -ness are
// kept, so "station" and "stationary" stay apart.
type InflectionStemmer struct{}

func NewInflectionStemmer() *InflectionStemmer {
	return &InflectionStemmer{}
}

// Stem returns the stem of a lower-case word. Words containing anything other
// than ASCII letters are returned unchanged.
func (s *InflectionStemmer) Stem(word string) string {
	if len(word) <= 3 || !isASCIILower(word) {
		return word
	}

	if stem, ok := stripPlural(word); ok {
		return stem
	}
	if stem, ok := stripVerbSuffix(word, "ing"); ok {
		return stem
	}
	if stem, ok := stripVerbSuffix(word, "ed"); ok {
		return stem
	}
	return word
}

func stripPlural(word string) (string, bool) {
	switch {
	case strings.HasSuffix(word, "ss"),
		strings.HasSuffix(word, "us"),
		strings.HasSuffix(word, "is"):
		return word, false
	case strings.HasSuffix(word, "ies"):
		return word[:len(word)-3] + "y", true
	case strings.HasSuffix(word, "sses"),
		strings.HasSuffix(word, "ches"),
		strings.HasSuffix(word, "shes"),
		strings.HasSuffix(word, "xes"),
		strings.HasSuffix(word, "zes"):
		return word[:len(word)-2], true
	case strings.HasSuffix(word, "s"):
		return word[:len(word)-1], true
	}
	return word, false
}

func stripVerbSuffix(word, suffix string) (string, bool) {
	if !strings.HasSuffix(word, suffix) {
		return word, false
	}
	stem := word[:len(word)-len(suffix)]

	if suffix == "ed" && strings.HasSuffix(stem, "i") && len(stem) >= 3 {
		return stem[:len(stem)-1] + "y", true
	}
	if len(stem) < 3 || !hasVowel(stem) {
		return word, false
	}

	n := len(stem)
	if stem[n-1] == stem[n-2] && !isVowel(stem[n-1]) {
		switch stem[n-1] {
		case 'l', 's', 'z':
		default:
			stem = stem[:n-1]
		}
	}
	return stem, true
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func hasVowel(word string) bool {
	for i := 0; i < len(word); i++ {
		if isVowel(word[i]) || (word[i] == 'y' && i > 0) {
			return true
		}
	}
	return false
}

func isASCIILower(word string) bool {
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}
