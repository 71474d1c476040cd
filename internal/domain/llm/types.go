package llm

import (
	"context"
	"errors"
)

// Generator produces a single response for a single user turn. Calls are
// stateless from the endpoint's point of view: no prior turns are replayed.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNoCandidates is returned when a response carries no usable candidate.
var ErrNoCandidates = errors.New("response contains no candidates")

// GenerateContentRequest is the generateContent request body.
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// GenerateContentResponse is the generateContent response body. Only the
// first candidate's first part is consumed; the remaining fields mirror the
// wire contract for completeness.
type GenerateContentResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
	AvgLogprobs  float64 `json:"avgLogprobs,omitempty"`
}

type Content struct {
	Parts []Part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type Part struct {
	Text string `json:"text"`
}

type UsageMetadata struct {
	PromptTokenCount        int            `json:"promptTokenCount"`
	CandidatesTokenCount    int            `json:"candidatesTokenCount"`
	TotalTokenCount         int            `json:"totalTokenCount"`
	PromptTokensDetails     []TokensDetail `json:"promptTokensDetails,omitempty"`
	CandidatesTokensDetails []TokensDetail `json:"candidatesTokensDetails,omitempty"`
}

type TokensDetail struct {
	Modality   string `json:"modality"`
	TokenCount int    `json:"tokenCount"`
}

// NewGenerateContentRequest wraps a single user turn in the wire shape.
func NewGenerateContentRequest(prompt string) GenerateContentRequest {
	return GenerateContentRequest{
		Contents: []Content{
			{Parts: []Part{{Text: prompt}}},
		},
	}
}

// FirstCandidateText extracts candidates[0].content.parts[0].text.
func (r *GenerateContentResponse) FirstCandidateText() (string, error) {
	if len(r.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", ErrNoCandidates
	}
	return parts[0].Text, nil
}
