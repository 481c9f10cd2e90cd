package tailor

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/document/parse"
	"resume-tailor/internal/document/write"
	"resume-tailor/internal/optimizer"
	"resume-tailor/internal/resumes"
	"resume-tailor/internal/sessions"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 10 << 20 // 10MB

// Handler wires HTTP handlers to the tailoring service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches pipeline routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.POST("/analyze-keywords", h.analyzeKeywords)
	rg.POST("/optimize", h.optimize)
	rg.GET("/download/:session_id", h.download)
	rg.GET("/verify/:session_id", h.verify)
	rg.DELETE("/cleanup/:session_id", h.cleanup)
	rg.POST("/api/resumes/:id/select", h.selectResume)
	rg.GET("/api/default-resume", h.defaultResume)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "file is too large", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}

	result, err := h.Svc.Upload(c.Request.Context(), userID, fileHeader.Filename, c.PostForm("name"), data)
	if err != nil {
		switch {
		case errors.Is(err, parse.ErrUnsupportedFormat):
			respond.Error(c, http.StatusUnsupportedMediaType, respond.CodeUnsupportedFormat, "only .pdf and .docx files are supported", nil)
		case errors.Is(err, parse.ErrParseFailure):
			respond.Error(c, http.StatusUnprocessableEntity, respond.CodeParseFailure, "could not parse the uploaded file", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to process upload", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"sessionId": result.Session.ID,
		"state":     result.Session.State,
		"resume":    result.Resume,
		"sections":  result.Sections,
	})
}

type analyzeRequest struct {
	SessionID      string `json:"sessionId" form:"session_id"`
	JobDescription string `json:"jobDescription" form:"job_description"`
}

func (h *Handler) analyzeKeywords(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req analyzeRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	if req.SessionID == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "session_id is required", nil)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "job_description is required", nil)
		return
	}

	analysis, err := h.Svc.AnalyzeKeywords(c.Request.Context(), userID, req.SessionID, req.JobDescription)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "session not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to analyze keywords", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"sessionId":       req.SessionID,
		"foundKeywords":   analysis.Found,
		"missingKeywords": analysis.Missing,
		"matchScore":      analysis.MatchScore,
		"totalKeywords":   len(analysis.Found) + len(analysis.Missing),
	})
}

type optimizeRequest struct {
	SessionID       string   `json:"sessionId" form:"session_id"`
	JobDescription  string   `json:"jobDescription" form:"job_description"`
	Tone            string   `json:"tone" form:"tone"`
	Instructions    string   `json:"instructions" form:"instructions"`
	Conservative    bool     `json:"conservative" form:"conservative"`
	KeywordEmphasis bool     `json:"keywordEmphasis" form:"keyword_emphasis"`
	MetricsEmphasis bool     `json:"metricsEmphasis" form:"metrics_emphasis"`
	MustHaveSkills  []string `json:"mustHaveSkills" form:"must_have_skills"`
	TargetRole      string   `json:"targetRole" form:"target_role"`
}

func (h *Handler) optimize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req optimizeRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	if req.SessionID == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "session_id is required", nil)
		return
	}

	out, err := h.Svc.Optimize(c.Request.Context(), userID, req.SessionID, OptimizeInput{
		JobDescription:  req.JobDescription,
		Tone:            req.Tone,
		Instructions:    req.Instructions,
		Conservative:    req.Conservative,
		KeywordEmphasis: req.KeywordEmphasis,
		MetricsEmphasis: req.MetricsEmphasis,
		MustHaveSkills:  req.MustHaveSkills,
		TargetRole:      req.TargetRole,
	})
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "session not found", nil)
		case errors.Is(err, optimizer.ErrJobDescriptionTooShort),
			errors.Is(err, optimizer.ErrEmptyResume):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		case errors.Is(err, optimizer.ErrUnavailable),
			errors.Is(err, optimizer.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, respond.CodeOptimizerUnavailable, "optimization service is unavailable, try again later", nil)
		case errors.Is(err, write.ErrMismatch):
			respond.Error(c, http.StatusUnprocessableEntity, respond.CodeWriterMismatch, "suggested edits did not match the document", nil)
		case errors.Is(err, sessions.ErrBadTransition):
			respond.Error(c, http.StatusConflict, respond.CodeValidation, "session is already past optimization", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to optimize resume", nil)
		}
		return
	}

	skipped := make([]gin.H, 0, len(out.Skipped))
	for _, sk := range out.Skipped {
		skipped = append(skipped, gin.H{"find": sk.Find, "reason": sk.Reason})
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"sessionId":        out.Session.ID,
		"state":            out.Session.State,
		"suggestions":      out.Suggestions,
		"appliedCount":     len(out.Applied),
		"skipped":          skipped,
		"keyInsights":      out.KeyInsights,
		"originalContent":  out.OriginalText,
		"optimizedContent": out.OptimizedText,
		"beforePreview":    out.BeforePreview,
		"afterPreview":     out.AfterPreview,
	})
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	name, data, err := h.Svc.Download(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "session not found", nil)
		case errors.Is(err, ErrNotOptimized):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "session has no optimized document yet", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to download resume", nil)
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, docxMimeType, data)
}

func (h *Handler) verify(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	valid := h.Svc.Verify(c.Request.Context(), userID, c.Param("session_id"))
	respond.JSON(c, http.StatusOK, gin.H{"valid": valid})
}

func (h *Handler) cleanup(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.CleanUp(c.Request.Context(), userID, c.Param("session_id")); err != nil {
		switch {
		case errors.Is(err, sessions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "session not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to clean up session", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"cleaned": true})
}

func (h *Handler) selectResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	result, err := h.Svc.SelectResume(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.recordSessionError(c, err)
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"sessionId": result.Session.ID,
		"state":     result.Session.State,
		"resume":    result.Resume,
	})
}

func (h *Handler) defaultResume(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	result, err := h.Svc.DefaultResume(c.Request.Context(), userID)
	if err != nil {
		h.recordSessionError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"sessionId": result.Session.ID,
		"state":     result.Session.State,
		"resume":    result.Resume,
	})
}

func (h *Handler) recordSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, resumes.ErrNotFound):
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "resume not found", nil)
	case errors.Is(err, parse.ErrUnsupportedFormat), errors.Is(err, parse.ErrParseFailure):
		respond.Error(c, http.StatusUnprocessableEntity, respond.CodeParseFailure, "stored resume could not be parsed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load resume", nil)
	}
}
