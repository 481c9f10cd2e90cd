package optimizer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// maxReplaceRatio drops changes whose replacement is disproportionately
// longer than the text it replaces.
const maxReplaceRatio = 1.5

// DecodeResult parses raw provider output and drops changes that could
// not be applied safely: empty finds, finds absent from the resume, and
// replacements more than 1.5x the length of their find.
func DecodeResult(raw string, resumeText string) (*Result, error) {
	cleaned := StripCodeFences(raw)
	if strings.TrimSpace(cleaned) == "" {
		return nil, fmt.Errorf("empty provider output")
	}

	var result Result
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("decode provider output: %w", err)
	}

	normalizedResume := normalizeSpace(resumeText)
	kept := result.Changes[:0]
	for _, change := range result.Changes {
		if strings.TrimSpace(change.Find) == "" || strings.TrimSpace(change.Replace) == "" {
			continue
		}
		if !strings.Contains(resumeText, change.Find) &&
			!strings.Contains(normalizedResume, normalizeSpace(change.Find)) {
			continue
		}
		if float64(len(change.Replace)) > float64(len(change.Find))*maxReplaceRatio {
			continue
		}
		kept = append(kept, change)
	}
	result.Changes = kept

	insights := result.KeyInsights[:0]
	for _, insight := range result.KeyInsights {
		if strings.TrimSpace(insight) != "" {
			insights = append(insights, strings.TrimSpace(insight))
		}
	}
	result.KeyInsights = insights

	return &result, nil
}

// StripCodeFences removes a surrounding markdown code fence if present.
func StripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx != -1 {
		// drop the language tag line
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
