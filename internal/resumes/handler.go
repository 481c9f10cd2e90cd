package resumes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/storage/object"
	"resume-tailor/internal/shared/telemetry"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc   *Service
	Store object.ObjectStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, store object.ObjectStore) *Handler {
	return &Handler{Svc: svc, Store: store}
}

// RegisterRoutes attaches record management routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/api/resumes", h.list)
	rg.PUT("/api/resumes/:id", h.rename)
	rg.DELETE("/api/resumes/:id", h.delete)
	rg.POST("/api/resumes/:id/default", h.setDefault)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	records, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list resumes", nil)
		return
	}
	if records == nil {
		records = []Resume{}
	}

	respond.JSON(c, http.StatusOK, gin.H{"resumes": records})
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) rename(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	resume, err := h.Svc.Rename(c.Request.Context(), userID, c.Param("id"), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "resume not found", nil)
		default:
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, resume)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	resume, err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to delete resume", nil)
		}
		return
	}

	// The record is already gone; a stuck object only wastes space.
	if h.Store != nil && resume.StorageKey != "" {
		if err := h.Store.Delete(c.Request.Context(), resume.StorageKey); err != nil {
			telemetry.Warn("resumes.delete_object_failed", map[string]any{
				"resume_id":   resume.ID,
				"storage_key": resume.StorageKey,
				"error":       err.Error(),
			})
		}
	}

	respond.JSON(c, http.StatusOK, gin.H{"deleted": true, "id": resume.ID})
}

func (h *Handler) setDefault(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	resumeID := c.Param("id")

	if err := h.Svc.SetDefault(c.Request.Context(), userID, resumeID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to set default resume", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"id": resumeID, "isDefault": true})
}
