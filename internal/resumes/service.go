package resumes

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Service wraps the repo with the default-flag policy: a user's first
// record becomes the default automatically.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateFromUpload registers a freshly uploaded resume. Returns the
// stored record with its assigned ID and default flag.
func (s *Service) CreateFromUpload(ctx context.Context, resume Resume) (Resume, error) {
	if s == nil || s.Repo == nil {
		return Resume{}, errors.New("resumes service not configured")
	}
	if strings.TrimSpace(resume.UserID) == "" {
		return Resume{}, errors.New("user id is required")
	}
	if resume.ID == "" {
		resume.ID = uuid.NewString()
	}
	if strings.TrimSpace(resume.Name) == "" {
		resume.Name = resume.FileName
	}

	count, err := s.Repo.CountByUser(ctx, resume.UserID)
	if err != nil {
		return Resume{}, err
	}
	resume.IsDefault = count == 0

	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	return s.Repo.GetByID(ctx, userID, resumeID)
}

func (s *Service) GetDefault(ctx context.Context, userID string) (Resume, error) {
	return s.Repo.GetDefault(ctx, userID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Resume, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Rename validates and applies a display-name change.
func (s *Service) Rename(ctx context.Context, userID, resumeID, name string) (Resume, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Resume{}, errors.New("name is required")
	}
	if len(name) > 200 {
		return Resume{}, errors.New("name too long")
	}
	return s.Repo.Rename(ctx, userID, resumeID, name)
}

func (s *Service) SetDefault(ctx context.Context, userID, resumeID string) error {
	return s.Repo.SetDefault(ctx, userID, resumeID)
}

// Delete removes the record and reports the deleted record so callers
// can clean up stored objects.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) (Resume, error) {
	return s.Repo.Delete(ctx, userID, resumeID)
}
