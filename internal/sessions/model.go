package sessions

import (
	"errors"
	"time"

	"resume-tailor/internal/document"
)

// State tracks where a session sits in the tailoring pipeline. States
// only move forward.
type State string

const (
	StateUploaded   State = "uploaded"
	StateAnalyzed   State = "analyzed"
	StateOptimized  State = "optimized"
	StateDownloaded State = "downloaded"
	StateCleanedUp  State = "cleaned_up"
)

var stateOrder = map[State]int{
	StateUploaded:   0,
	StateAnalyzed:   1,
	StateOptimized:  2,
	StateDownloaded: 3,
	StateCleanedUp:  4,
}

var (
	// ErrNotFound is returned for unknown or cleaned-up sessions.
	ErrNotFound = errors.New("session not found")
	// ErrBadTransition is returned on attempts to move a session backwards.
	ErrBadTransition = errors.New("invalid session state transition")
)

// Session holds the ephemeral working set of one tailoring run. It is
// never persisted: restarting the process discards all sessions.
type Session struct {
	ID            string
	UserID        string
	ResumeID      string
	FileName      string
	StorageKey    string
	SourceFormat  document.Format
	State         State
	Parsed        *document.Document
	ExtractedText string
	// WorkingDocx is the DOCX the writer edits: the upload itself, or
	// the synthesized normalization of a PDF upload.
	WorkingDocx   []byte
	OptimizedDocx []byte
	OptimizedText string
	OptimizedKey  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanTransition reports whether moving to next is a forward step.
func (s *Session) CanTransition(next State) bool {
	cur, ok := stateOrder[s.State]
	if !ok {
		return false
	}
	nxt, ok := stateOrder[next]
	if !ok {
		return false
	}
	return nxt > cur
}
