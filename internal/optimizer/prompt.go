package optimizer

import (
	_ "embed"
	"strings"
)

//go:embed prompts/optimize_system.txt
var systemPrompt string

// SystemPrompt returns the shared system instruction for all providers.
func SystemPrompt() string {
	return strings.TrimSpace(systemPrompt)
}

// UserPrompt renders the per-request message from the input.
func UserPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("JOB DESCRIPTION:\n")
	b.WriteString(strings.TrimSpace(in.JobDescription))
	b.WriteString("\n\nRESUME:\n")
	b.WriteString(strings.TrimSpace(in.ResumeText))
	if tone := strings.TrimSpace(in.Tone); tone != "" {
		b.WriteString("\n\nTONE: ")
		b.WriteString(tone)
	}
	if extra := strings.TrimSpace(in.Instructions); extra != "" {
		b.WriteString("\n\nADDITIONAL INSTRUCTIONS:\n")
		b.WriteString(extra)
	}
	return b.String()
}
