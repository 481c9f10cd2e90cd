package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-tailor/internal/auth"
	"resume-tailor/internal/profile"
	"resume-tailor/internal/resumes"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/tailor"
	"resume-tailor/internal/users"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config         config.Config
	TailorHandler  *tailor.Handler
	ResumesHandler *resumes.Handler
	ProfileHandler *profile.Handler
	UsersHandler   *users.Handler
	GoogleAuth     *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}

	resume := r.Group("/resume")
	if deps.TailorHandler != nil {
		deps.TailorHandler.RegisterRoutes(resume)
	}
	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(resume)
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(resume)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
