package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-tailor/internal/auth"
	"resume-tailor/internal/optimizer"
	"resume-tailor/internal/optimizer/gemini"
	"resume-tailor/internal/optimizer/openai"
	"resume-tailor/internal/profile"
	"resume-tailor/internal/resumes"
	"resume-tailor/internal/sessions"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/server"
	"resume-tailor/internal/shared/storage/db"
	"resume-tailor/internal/shared/storage/object"
	localstore "resume-tailor/internal/shared/storage/object/local"
	s3store "resume-tailor/internal/shared/storage/object/s3"
	"resume-tailor/internal/tailor"
	"resume-tailor/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Store          object.ObjectStore
	Sessions       *sessions.Store
	Optimizer      optimizer.Client
	UsersRepo      users.Repo
	ResumesRepo    resumes.Repo
	UsersService   *users.Service
	ResumesService *resumes.Service
	TailorService  *tailor.Service
	TailorHandler  *tailor.Handler
	ResumesHandler *resumes.Handler
	ProfileHandler *profile.Handler
	UsersHandler   *users.Handler
	GoogleAuth     *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	optimizerClient, err := buildOptimizer(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Sessions:  sessions.NewStore(),
		Optimizer: optimizerClient,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         app.Config,
		TailorHandler:  app.TailorHandler,
		ResumesHandler: app.ResumesHandler,
		ProfileHandler: app.ProfileHandler,
		UsersHandler:   app.UsersHandler,
		GoogleAuth:     app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildOptimizer(ctx context.Context, cfg config.Config) (optimizer.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) == "" {
			log.Printf("bootstrap: OPENAI_API_KEY empty; optimization disabled")
			return optimizer.PlaceholderClient{}, nil
		}
		return openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
	case "gemini":
		if strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) == "" {
			log.Printf("bootstrap: GEMINI_API_KEY empty; optimization disabled")
			return optimizer.PlaceholderClient{}, nil
		}
		return gemini.NewClient(ctx, os.Getenv("GEMINI_API_KEY"), cfg.LLMModel)
	default:
		return optimizer.PlaceholderClient{}, nil
	}
}

func buildServices(app *App) {
	var userRepo users.Repo
	var resumeRepo resumes.Repo

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
	}

	userSvc := users.NewService(userRepo)
	resumeSvc := resumes.NewService(resumeRepo)

	tailorSvc := &tailor.Service{
		Sessions:  app.Sessions,
		Resumes:   resumeSvc,
		Store:     app.Store,
		Optimizer: app.Optimizer,
	}

	app.UsersRepo = userRepo
	app.ResumesRepo = resumeRepo
	app.UsersService = userSvc
	app.ResumesService = resumeSvc
	app.TailorService = tailorSvc
	app.TailorHandler = tailor.NewHandler(tailorSvc, app.Config.MaxUploadBytes)
	app.ResumesHandler = resumes.NewHandler(resumeSvc, app.Store)
	app.ProfileHandler = profile.NewHandler(userSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
