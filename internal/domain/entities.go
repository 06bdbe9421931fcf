package domain

import (
	"errors"
	"time"
)

var (
	// ErrDocumentUnavailable marks a document that could not be opened or read.
	// The pipeline skips such documents.
	ErrDocumentUnavailable = errors.New("document unavailable")

	// ErrEmbedderUnavailable marks an embedder that could not be built or invoked.
	// It aborts the run.
	ErrEmbedderUnavailable = errors.New("embedder unavailable")
)

// Section is a detected heading plus the lines that follow it on its page.
// ImportanceRank and Score are zero until the section is ranked.
type Section struct {
	Title          string
	SourceDocument string
	PageNumber     int
	ContextText    string
	ImportanceRank int
	Score          float64
}

// Ranked reports whether the section has been assigned a rank.
func (s Section) Ranked() bool {
	return s.ImportanceRank > 0
}

// Fragment is a piece of a ranked section's context.
type Fragment struct {
	SourceDocument string
	PageNumber     int
	Text           string
}

// Input is the analysis request.
type Input struct {
	ChallengeInfo map[string]any  `json:"challenge_info,omitempty"`
	Documents     []InputDocument `json:"documents"`
	Persona       Persona         `json:"persona"`
	JobToBeDone   JobToBeDone     `json:"job_to_be_done"`
}

type InputDocument struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

type Persona struct {
	Role string `json:"role"`
}

type JobToBeDone struct {
	Task string `json:"task"`
}

// Filenames returns the document filenames in input order.
func (in Input) Filenames() []string {
	names := make([]string, len(in.Documents))
	for i, d := range in.Documents {
		names[i] = d.Filename
	}
	return names
}

// Output is the serialized analysis result.
type Output struct {
	Metadata           Metadata           `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionResult `json:"subsection_analysis"`
	Warnings           []string           `json:"-"`
}

type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

type SubsectionResult struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// TimestampLayout is the layout of Metadata.ProcessingTimestamp.
const TimestampLayout = "2006-01-02T15:04:05Z"

// RunSummary describes a stored analysis run.
type RunSummary struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Persona    string    `json:"persona"`
	Task       string    `json:"task"`
	Documents  int       `json:"documents"`
	Sections   int       `json:"sections"`
	Fragments  int       `json:"fragments"`
	ConfigHash string    `json:"config_hash,omitempty"`
}
