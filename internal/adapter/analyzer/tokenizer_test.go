package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenizer_Tokenize_WithStemming(t *testing.T) {
	tok := NewTokenizer(true)

	tokens := tok.Tokenize("Planning beaches and cities")
	want := []string{"plan", "beach", "city"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("expected %v, got %v", want, tokens)
	}
}

func TestTokenizer_Tokenize_WithoutStemming(t *testing.T) {
	tok := NewTokenizer(false)

	tokens := tok.Tokenize("running dogs are playing")
	want := []string{"running", "dogs", "playing"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("expected %v, got %v", want, tokens)
	}
}

func TestTokenizer_StopwordRemoval(t *testing.T) {
	tok := NewTokenizer(false)

	tokens := tok.Tokenize("the quick brown fox")
	for _, token := range tokens {
		if token == "the" {
			t.Errorf("stopword 'the' should be removed, got %v", tokens)
		}
	}
}

func TestTokenizer_ShortWordRemoval(t *testing.T) {
	tok := NewTokenizer(false)

	tokens := tok.Tokenize("a I go x")
	if !reflect.DeepEqual(tokens, []string{"go"}) {
		t.Errorf("expected only 'go', got %v", tokens)
	}
}

func TestTokenizer_Possessive(t *testing.T) {
	tok := NewTokenizer(false)

	tokens := tok.Tokenize("The chef's menu, the Chef’s table")
	want := []string{"chef", "menu", "chef", "table"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("expected %v, got %v", want, tokens)
	}
}

func TestTokenizer_EmptyInput(t *testing.T) {
	tok := NewTokenizer(true)

	if tokens := tok.Tokenize(""); len(tokens) != 0 {
		t.Errorf("expected 0 tokens for empty input, got %d", len(tokens))
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"hello world", 2},
		{"hello-world", 2},
		{"don't stop", 2},
		{"'quoted'", 1},
		{"Côte d’Azur", 2},
		{"123numbers456", 1},
		{"• bullet text", 2},
	}

	for _, tt := range tests {
		words := splitWords(tt.input)
		if len(words) != tt.expected {
			t.Errorf("splitWords(%q) = %d words, want %d: %v", tt.input, len(words), tt.expected, words)
		}
	}
}

func TestInflectionStemmer(t *testing.T) {
	s := NewInflectionStemmer()

	tests := map[string]string{
		"beaches":  "beach",
		"boxes":    "box",
		"cities":   "city",
		"hotels":   "hotel",
		"class":    "class",
		"analysis": "analysis",
		"campus":   "campus",
		"running":  "run",
		"falling":  "fall",
		"playing":  "play",
		"planned":  "plan",
		"studied":  "study",
		"need":     "need",
		"sing":     "sing",
		"red":      "red",
		"café":     "café",
	}

	for word, want := range tests {
		if got := s.Stem(word); got != want {
			t.Errorf("Stem(%q) = %q, want %q", word, got, want)
		}
	}
}
