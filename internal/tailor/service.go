package tailor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"resume-tailor/internal/document"
	"resume-tailor/internal/document/parse"
	"resume-tailor/internal/document/preview"
	"resume-tailor/internal/document/write"
	"resume-tailor/internal/keywords"
	"resume-tailor/internal/optimizer"
	"resume-tailor/internal/resumes"
	"resume-tailor/internal/sessions"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/storage/object"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/shared/util"
)

// ErrNotOptimized is returned when a download is requested before an
// optimized document exists.
var ErrNotOptimized = errors.New("session has no optimized document")

// Service orchestrates the tailoring pipeline: upload, keyword
// analysis, optimization, and download.
type Service struct {
	Sessions  *sessions.Store
	Resumes   *resumes.Service
	Store     object.ObjectStore
	Optimizer optimizer.Client
}

// UploadResult bundles the session and the persisted record created by
// an upload.
type UploadResult struct {
	Session  sessions.Session
	Resume   resumes.Resume
	Sections []string
}

func sectionHeadings(doc *document.Document) []string {
	var out []string
	for _, section := range parse.SplitSections(doc) {
		if section.Heading != "" {
			out = append(out, section.Heading)
		}
	}
	return out
}

// Upload validates and parses an uploaded file, persists it as a
// record, and opens a fresh session around it. The format is checked
// before anything is stored, so a rejected upload leaves no trace.
func (s *Service) Upload(ctx context.Context, userID, fileName, displayName string, data []byte) (UploadResult, error) {
	ext := util.NormalizeExt(fileName)
	if ext != ".pdf" && ext != ".docx" {
		return UploadResult{}, fmt.Errorf("%w: %s", parse.ErrUnsupportedFormat, ext)
	}

	doc, err := parse.Parse(ctx, data, fileName)
	if err != nil {
		metrics.IncUploadFailed()
		return UploadResult{}, err
	}

	// PDF uploads are normalized into a minimal DOCX so the writer has
	// a single working format.
	workingDocx := data
	if doc.SourceFormat == document.FormatPDF {
		workingDocx, err = write.Synthesize(doc)
		if err != nil {
			metrics.IncUploadFailed()
			return UploadResult{}, fmt.Errorf("%w: %v", parse.ErrParseFailure, err)
		}
	}

	storageKey, sizeBytes, mimeType, err := s.Store.Save(ctx, userID, fileName, bytes.NewReader(data))
	if err != nil {
		metrics.IncUploadFailed()
		return UploadResult{}, err
	}

	previewURI, err := preview.RenderPNG(doc)
	if err != nil {
		// A record without a preview is still usable.
		telemetry.Warn("tailor.preview_failed", map[string]any{
			"file_name": fileName,
			"error":     err.Error(),
		})
		previewURI = ""
	}

	record, err := s.Resumes.CreateFromUpload(ctx, resumes.Resume{
		UserID:     userID,
		Name:       strings.TrimSpace(displayName),
		FileName:   fileName,
		Ext:        ext,
		MimeType:   mimeType,
		SizeBytes:  sizeBytes,
		StorageKey: storageKey,
		Content:    doc.PlainText(),
		Preview:    previewURI,
	})
	if err != nil {
		metrics.IncUploadFailed()
		s.discardObject(ctx, storageKey)
		return UploadResult{}, err
	}

	session, err := s.Sessions.Create(ctx, sessions.Session{
		UserID:        userID,
		ResumeID:      record.ID,
		FileName:      fileName,
		StorageKey:    storageKey,
		SourceFormat:  doc.SourceFormat,
		Parsed:        doc,
		ExtractedText: doc.PlainText(),
		WorkingDocx:   workingDocx,
	})
	if err != nil {
		metrics.IncUploadFailed()
		s.discardObject(ctx, storageKey)
		return UploadResult{}, err
	}

	metrics.IncUpload()
	telemetry.Info("tailor.uploaded", map[string]any{
		"session_id": session.ID,
		"resume_id":  record.ID,
		"format":     string(doc.SourceFormat),
		"size_bytes": sizeBytes,
	})
	return UploadResult{Session: session, Resume: record, Sections: sectionHeadings(doc)}, nil
}

// discardObject removes an object saved by an upload whose record or
// session could not be created afterwards.
func (s *Service) discardObject(ctx context.Context, storageKey string) {
	if err := s.Store.Delete(ctx, storageKey); err != nil {
		telemetry.Warn("tailor.upload_rollback_failed", map[string]any{
			"storage_key": storageKey,
			"error":       err.Error(),
		})
	}
}

// AnalyzeKeywords compares the session's resume text against a job
// description. The session moves to analyzed on its first analysis and
// stays put on reruns.
func (s *Service) AnalyzeKeywords(ctx context.Context, userID, sessionID, jobDescription string) (keywords.Analysis, error) {
	session, err := s.Sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return keywords.Analysis{}, err
	}

	analysis := keywords.Analyze(session.ExtractedText, jobDescription)

	if session.State == sessions.StateUploaded {
		_, err = s.Sessions.Advance(ctx, userID, sessionID, sessions.StateAnalyzed, nil)
	} else {
		_, err = s.Sessions.Touch(ctx, userID, sessionID, nil)
	}
	if err != nil {
		return keywords.Analysis{}, err
	}

	metrics.IncKeywordAnalysis()
	return analysis, nil
}

// OptimizeInput carries the user's optimization request.
type OptimizeInput struct {
	JobDescription  string
	Tone            string
	Instructions    string
	Conservative    bool
	KeywordEmphasis bool
	MetricsEmphasis bool
	MustHaveSkills  []string
	TargetRole      string
}

func (in OptimizeInput) composedInstructions() string {
	var lines []string
	if s := strings.TrimSpace(in.Instructions); s != "" {
		lines = append(lines, s)
	}
	if in.Conservative {
		lines = append(lines, "Make conservative edits only; keep the original wording wherever possible.")
	}
	if in.KeywordEmphasis {
		lines = append(lines, "Emphasize keywords from the job description.")
	}
	if in.MetricsEmphasis {
		lines = append(lines, "Emphasize quantified results and metrics.")
	}
	if len(in.MustHaveSkills) > 0 {
		lines = append(lines, "Make sure these skills are represented: "+strings.Join(in.MustHaveSkills, ", ")+".")
	}
	if s := strings.TrimSpace(in.TargetRole); s != "" {
		lines = append(lines, "Tailor the resume toward the role: "+s+".")
	}
	return strings.Join(lines, "\n")
}

// OptimizeOutput reports what the optimizer proposed, what the writer
// actually applied, and the before/after views of the document.
type OptimizeOutput struct {
	Session       sessions.Session
	Suggestions   []optimizer.Change
	KeyInsights   []string
	Applied       []write.Replacement
	Skipped       []write.SkippedReplacement
	OriginalText  string
	OptimizedText string
	BeforePreview string
	AfterPreview  string
}

// Optimize runs the resume through the configured optimizer client and
// applies the returned edits to the working DOCX. State and input
// checks happen before any network call.
func (s *Service) Optimize(ctx context.Context, userID, sessionID string, in OptimizeInput) (OptimizeOutput, error) {
	session, err := s.Sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return OptimizeOutput{}, err
	}
	if !session.CanTransition(sessions.StateOptimized) {
		return OptimizeOutput{}, fmt.Errorf("%w: %s -> %s", sessions.ErrBadTransition, session.State, sessions.StateOptimized)
	}

	input := optimizer.Input{
		ResumeText:     session.ExtractedText,
		JobDescription: in.JobDescription,
		Tone:           in.Tone,
		Instructions:   in.composedInstructions(),
	}
	if err := input.Validate(); err != nil {
		return OptimizeOutput{}, err
	}
	if s.Optimizer == nil {
		return OptimizeOutput{}, optimizer.ErrNotConfigured
	}

	metrics.IncOptimizeStarted()
	start := time.Now()

	result, err := s.Optimizer.Optimize(ctx, input)
	if err != nil {
		metrics.IncOptimizeFailed()
		return OptimizeOutput{}, err
	}

	replacements := make([]write.Replacement, 0, len(result.Changes))
	for _, change := range result.Changes {
		replacements = append(replacements, write.Replacement{
			Find:    change.Find,
			Replace: change.Replace,
		})
	}

	optimizedDocx, writeResult, err := write.Apply(session.WorkingDocx, replacements)
	if err != nil {
		metrics.IncOptimizeFailed()
		return OptimizeOutput{}, err
	}

	optimizedText := session.ExtractedText
	for _, applied := range writeResult.Applied {
		optimizedText = strings.Replace(optimizedText, applied.Find, applied.Replace, 1)
	}

	optimizedKey := optimizedObjectKey(session.StorageKey, session.ID)
	if _, err := s.Store.SaveWithKey(ctx, optimizedKey, docxMimeType, bytes.NewReader(optimizedDocx)); err != nil {
		metrics.IncOptimizeFailed()
		return OptimizeOutput{}, err
	}

	updated, err := s.Sessions.Advance(ctx, userID, sessionID, sessions.StateOptimized, func(sess *sessions.Session) {
		sess.OptimizedDocx = optimizedDocx
		sess.OptimizedText = optimizedText
		sess.OptimizedKey = optimizedKey
	})
	if err != nil {
		metrics.IncOptimizeFailed()
		return OptimizeOutput{}, err
	}

	metrics.IncOptimizeCompleted()
	metrics.ObserveOptimizeDurationMs(float64(time.Since(start).Milliseconds()))
	telemetry.Info("tailor.optimized", map[string]any{
		"session_id": sessionID,
		"applied":    len(writeResult.Applied),
		"skipped":    len(writeResult.Skipped),
	})

	return OptimizeOutput{
		Session:       updated,
		Suggestions:   result.Changes,
		KeyInsights:   result.KeyInsights,
		Applied:       writeResult.Applied,
		Skipped:       writeResult.Skipped,
		OriginalText:  session.ExtractedText,
		OptimizedText: optimizedText,
		BeforePreview: s.renderPreview(session.Parsed),
		AfterPreview:  s.renderOptimizedPreview(ctx, optimizedDocx),
	}, nil
}

func (s *Service) renderPreview(doc *document.Document) string {
	if doc == nil {
		return ""
	}
	uri, err := preview.RenderPNG(doc)
	if err != nil {
		return ""
	}
	return uri
}

func (s *Service) renderOptimizedPreview(ctx context.Context, docxBytes []byte) string {
	doc, err := parse.Parse(ctx, docxBytes, "optimized.docx")
	if err != nil {
		return ""
	}
	return s.renderPreview(doc)
}

// Download returns the optimized DOCX and its download file name. When
// the session came from a record, the record must still exist.
func (s *Service) Download(ctx context.Context, userID, sessionID string) (string, []byte, error) {
	session, err := s.Sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return "", nil, err
	}
	if len(session.OptimizedDocx) == 0 {
		return "", nil, ErrNotOptimized
	}

	if session.ResumeID != "" {
		if _, err := s.Resumes.Get(ctx, userID, session.ResumeID); err != nil {
			if errors.Is(err, resumes.ErrNotFound) {
				return "", nil, sessions.ErrNotFound
			}
			return "", nil, err
		}
	}

	if session.CanTransition(sessions.StateDownloaded) {
		if _, err := s.Sessions.Advance(ctx, userID, sessionID, sessions.StateDownloaded, nil); err != nil {
			return "", nil, err
		}
	}

	metrics.IncDownload()
	name := util.BaseName(session.FileName) + "_optimized.docx"
	return name, session.OptimizedDocx, nil
}

// Verify reports whether a session is still live.
func (s *Service) Verify(ctx context.Context, userID, sessionID string) bool {
	_, err := s.Sessions.Get(ctx, userID, sessionID)
	return err == nil
}

// CleanUp terminates a session and removes its optimized object. The
// uploaded original stays: it belongs to the persisted record.
func (s *Service) CleanUp(ctx context.Context, userID, sessionID string) error {
	session, err := s.Sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	if session.OptimizedKey != "" {
		if err := s.Store.Delete(ctx, session.OptimizedKey); err != nil {
			telemetry.Warn("tailor.cleanup_object_failed", map[string]any{
				"session_id":  sessionID,
				"storage_key": session.OptimizedKey,
				"error":       err.Error(),
			})
		}
	}
	if session.ResumeID == "" && session.StorageKey != "" {
		if err := s.Store.Delete(ctx, session.StorageKey); err != nil {
			telemetry.Warn("tailor.cleanup_object_failed", map[string]any{
				"session_id":  sessionID,
				"storage_key": session.StorageKey,
				"error":       err.Error(),
			})
		}
	}

	if err := s.Sessions.CleanUp(ctx, userID, sessionID); err != nil {
		return err
	}
	metrics.IncSessionCleaned()
	return nil
}

// SelectResume opens a fresh session over a stored record.
func (s *Service) SelectResume(ctx context.Context, userID, resumeID string) (UploadResult, error) {
	record, err := s.Resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return UploadResult{}, err
	}
	return s.sessionFromRecord(ctx, userID, record)
}

// DefaultResume opens a fresh session over the user's default record.
func (s *Service) DefaultResume(ctx context.Context, userID string) (UploadResult, error) {
	record, err := s.Resumes.GetDefault(ctx, userID)
	if err != nil {
		return UploadResult{}, err
	}
	return s.sessionFromRecord(ctx, userID, record)
}

func (s *Service) sessionFromRecord(ctx context.Context, userID string, record resumes.Resume) (UploadResult, error) {
	reader, err := s.Store.Open(ctx, record.StorageKey)
	if err != nil {
		return UploadResult{}, err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return UploadResult{}, err
	}

	doc, err := parse.Parse(ctx, data, record.FileName)
	if err != nil {
		return UploadResult{}, err
	}

	workingDocx := data
	if doc.SourceFormat == document.FormatPDF {
		workingDocx, err = write.Synthesize(doc)
		if err != nil {
			return UploadResult{}, fmt.Errorf("%w: %v", parse.ErrParseFailure, err)
		}
	}

	session, err := s.Sessions.Create(ctx, sessions.Session{
		UserID:        userID,
		ResumeID:      record.ID,
		FileName:      record.FileName,
		StorageKey:    record.StorageKey,
		SourceFormat:  doc.SourceFormat,
		Parsed:        doc,
		ExtractedText: doc.PlainText(),
		WorkingDocx:   workingDocx,
	})
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{Session: session, Resume: record, Sections: sectionHeadings(doc)}, nil
}

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func optimizedObjectKey(storageKey, sessionID string) string {
	if storageKey == "" {
		return sessionID + "_optimized.docx"
	}
	ext := path.Ext(storageKey)
	return strings.TrimSuffix(storageKey, ext) + "_optimized.docx"
}
