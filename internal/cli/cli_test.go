package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docrank/config"
	"docrank/internal/adapter/fs"
	"docrank/internal/domain"
)

const guideText = "Coastal Beach Guide\n" +
	"The beaches along the coast are sandy and calm.\n" +
	"\n" +
	"Beach resorts offer sunbeds and umbrellas for visitors.\f" +
	"Medieval Castle History\n" +
	"Old castles stand on the hills above the town."

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "input.json")
	writeFile(t, path, `{
		"challenge_info": {"challenge_id": "round_1b_002"},
		"documents": [{"filename": "a.pdf", "title": "A"}],
		"persona": {"role": "Travel Planner"},
		"job_to_be_done": {"task": "Plan a trip"}
	}`)

	in, err := readInput(path)
	if err != nil {
		t.Fatal(err)
	}
	if in.Persona.Role != "Travel Planner" || in.JobToBeDone.Task != "Plan a trip" {
		t.Errorf("unexpected input %+v", in)
	}
	if len(in.Documents) != 1 || in.Documents[0].Filename != "a.pdf" {
		t.Errorf("unexpected documents %+v", in.Documents)
	}
}

func TestReadInputInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	writeFile(t, bad, `{"documents": [`)
	if _, err := readInput(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}

	noName := filepath.Join(dir, "noname.json")
	writeFile(t, noName, `{"documents": [{"title": "untitled"}]}`)
	if _, err := readInput(noName); err == nil {
		t.Error("expected error for a document without filename")
	}

	if _, err := readInput(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestDiscoverDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "x")
	writeFile(t, filepath.Join(dir, "sub", "a.pdf"), "x")
	writeFile(t, filepath.Join(dir, "notes.md"), "x")

	docs, err := discoverDocuments(config.DefaultConfig(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].Filename != "b.txt" || docs[1].Filename != "sub/a.pdf" {
		t.Errorf("unexpected documents %+v", docs)
	}

	if _, err := discoverDocuments(config.DefaultConfig(), t.TempDir()); err == nil {
		t.Error("expected error for an empty directory")
	}
}

func TestCollectRefs(t *testing.T) {
	dir := t.TempDir()
	single := filepath.Join(dir, "single.txt")
	writeFile(t, single, "x")
	writeFile(t, filepath.Join(dir, "docs", "one.txt"), "x")
	writeFile(t, filepath.Join(dir, "docs", "two.pdf"), "x")

	walker := fs.NewWalker([]string{"**/*.txt", "**/*.pdf"}, nil)
	refs, err := collectRefs([]string{single, filepath.Join(dir, "docs")}, walker)
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, r := range refs {
		names = append(names, r.Name)
	}
	if strings.Join(names, ",") != "single.txt,one.txt,two.pdf" {
		t.Errorf("unexpected refs %v", names)
	}

	if _, err := collectRefs([]string{filepath.Join(dir, "nope")}, walker); err == nil {
		t.Error("expected error for a missing path")
	}
}

func TestWriteOutput(t *testing.T) {
	out := &domain.Output{
		Metadata:           domain.Metadata{Persona: "Chef & Host", InputDocuments: []string{}},
		ExtractedSections:  []domain.ExtractedSection{},
		SubsectionAnalysis: []domain.SubsectionResult{},
	}

	var buf bytes.Buffer
	if err := writeOutput(out, "", &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"persona": "Chef & Host"`) {
		t.Errorf("expected unescaped, indented JSON, got %s", buf.String())
	}

	path := filepath.Join(t.TempDir(), "nested", "out.json")
	if err := writeOutput(out, path, &buf); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file not written: %v", err)
	}
}

func TestAnalyzeAndHistoryCommands(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "PDFs", "guide.txt"), guideText)
	writeFile(t, filepath.Join(dir, "input.json"), `{
		"documents": [{"filename": "guide.txt"}, {"filename": "lost.pdf"}],
		"persona": {"role": "Travel Planner"},
		"job_to_be_done": {"task": "Plan a beach holiday"}
	}`)
	outPath := filepath.Join(dir, "out", "result.json")

	rootCmd.SetArgs([]string{
		"analyze",
		"--dir", dir,
		"--input", filepath.Join(dir, "input.json"),
		"--output", outPath,
		"--log-level", "error",
		"--quiet",
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var out domain.Output
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	if len(out.Metadata.InputDocuments) != 2 {
		t.Errorf("expected both input documents in metadata, got %v", out.Metadata.InputDocuments)
	}
	if len(out.ExtractedSections) != 2 {
		t.Fatalf("expected 2 sections, got %+v", out.ExtractedSections)
	}
	if out.ExtractedSections[0].SectionTitle != "Coastal Beach Guide" {
		t.Errorf("expected the beach section first, got %q", out.ExtractedSections[0].SectionTitle)
	}
	if out.ExtractedSections[1].PageNumber != 2 {
		t.Errorf("expected the castle section on page 2, got %d", out.ExtractedSections[1].PageNumber)
	}
	if len(out.SubsectionAnalysis) == 0 {
		t.Error("expected refined text for the ranked sections")
	}

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)
	rootCmd.SetArgs([]string{"history", "--dir", dir, "--log-level", "error"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Travel Planner") {
		t.Errorf("expected the run in history, got %q", buf.String())
	}
}

func TestAnalyzeEmbedderUnavailable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "docrank.yaml"), "embedding:\n  provider: unknown\n")
	writeFile(t, filepath.Join(dir, "input.json"), `{"documents": [{"filename": "a.txt"}]}`)

	rootCmd.SetArgs([]string{
		"analyze",
		"--dir", dir,
		"--input", filepath.Join(dir, "input.json"),
		"--output", filepath.Join(dir, "out.json"),
		"--log-level", "error",
		"--quiet",
	})
	err := rootCmd.Execute()
	if !errors.Is(err, domain.ErrEmbedderUnavailable) {
		t.Errorf("expected ErrEmbedderUnavailable, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out.json")); statErr == nil {
		t.Error("no output should be written when the embedder is unavailable")
	}
}
