// Package recognizer defines the handwriting-recognition boundary used by
// practice games. The real recognizer is an external model; this package
// ships a static implementation so the rest of the system can be exercised
// without one.
package recognizer

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyInput indicates no strokes or image data were submitted.
var ErrEmptyInput = errors.New("recognition input cannot be empty")

// Candidate is one possible reading of the submitted handwriting.
type Candidate struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-1
}

// Result holds the ranked candidates for one recognition request.
type Result struct {
	Candidates []Candidate `json:"candidates"`
}

// Recognizer turns handwriting input into text candidates.
type Recognizer interface {
	// Recognize ranks possible readings of the input, best first. The
	// expected hint, when non-empty, lets implementations bias toward the
	// answer the exercise is checking for.
	Recognize(ctx context.Context, input []byte, expected string) (*Result, error)
}

// Static is a deterministic Recognizer for development and tests: it
// echoes the expected text as the top candidate.
type Static struct {
	// Confidence reported for the top candidate.
	Confidence float64
}

// NewStatic creates a Static recognizer with a fixed top confidence.
func NewStatic() *Static {
	return &Static{Confidence: 0.92}
}

// Ensure Static implements Recognizer
var _ Recognizer = (*Static)(nil)

// Recognize implements Recognizer.
func (s *Static) Recognize(ctx context.Context, input []byte, expected string) (*Result, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	expected = strings.TrimSpace(expected)
	if expected == "" {
		return &Result{Candidates: []Candidate{}}, nil
	}

	return &Result{
		Candidates: []Candidate{
			{Text: expected, Confidence: s.Confidence},
		},
	}, nil
}
