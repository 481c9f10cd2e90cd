package profile

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/users"
)

// Handler serves the profile picture endpoints.
type Handler struct {
	Users *users.Service
}

// NewHandler constructs a Handler.
func NewHandler(userSvc *users.Service) *Handler {
	return &Handler{Users: userSvc}
}

// RegisterRoutes attaches profile routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/api/profile/picture", h.getPicture)
	rg.POST("/api/profile/picture", h.setPicture)
}

func (h *Handler) getPicture(c *gin.Context) {
	if middleware.IsGuestFromContext(c) {
		respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "login required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	user, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load profile", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"pictureUrl": user.PictureURL})
}

type setPictureRequest struct {
	PictureURL string `json:"pictureUrl"`
}

func (h *Handler) setPicture(c *gin.Context) {
	if middleware.IsGuestFromContext(c) {
		respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "login required", nil)
		return
	}

	var req setPictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}
	req.PictureURL = strings.TrimSpace(req.PictureURL)
	if req.PictureURL == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "pictureUrl is required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	user, err := h.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load profile", nil)
		return
	}

	user.PictureURL = req.PictureURL
	if err := h.Users.UpsertFromAuth(c.Request.Context(), user); err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to update profile", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"pictureUrl": user.PictureURL})
}
