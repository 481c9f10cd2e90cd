package optimizer

import (
	"context"
	"errors"
	"strings"
)

// MinJobDescriptionLength is the minimum number of characters a job
// description must have before any provider call is made.
const MinJobDescriptionLength = 50

var (
	// ErrUnavailable wraps provider transport and quota failures.
	ErrUnavailable = errors.New("optimizer unavailable")
	// ErrJobDescriptionTooShort rejects inputs before any network call.
	ErrJobDescriptionTooShort = errors.New("job description too short")
	// ErrEmptyResume rejects inputs with no resume text.
	ErrEmptyResume = errors.New("resume text is empty")
)

// Client abstracts LLM providers for resume tailoring.
type Client interface {
	Optimize(ctx context.Context, input Input) (*Result, error)
}

// Input captures everything a single tailoring call needs.
type Input struct {
	ResumeText     string
	JobDescription string
	Tone           string
	Instructions   string
}

// Validate checks inputs locally. Callers must not reach a provider
// when this fails.
func (in Input) Validate() error {
	if strings.TrimSpace(in.ResumeText) == "" {
		return ErrEmptyResume
	}
	if len(strings.TrimSpace(in.JobDescription)) < MinJobDescriptionLength {
		return ErrJobDescriptionTooShort
	}
	return nil
}

// Change is one find/replace edit proposed by the provider.
type Change struct {
	Find    string `json:"find"`
	Replace string `json:"replace"`
	Reason  string `json:"reason"`
}

// Result is the validated provider output.
type Result struct {
	Changes     []Change `json:"changes"`
	KeyInsights []string `json:"key_insights"`
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("no optimizer provider configured")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Optimize returns ErrNotConfigured.
func (PlaceholderClient) Optimize(ctx context.Context, input Input) (*Result, error) {
	_ = ctx
	_ = input
	return nil, ErrNotConfigured
}
