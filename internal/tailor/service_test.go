package tailor_test

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"resume-tailor/internal/resumes"
	"resume-tailor/internal/sessions"
	localstore "resume-tailor/internal/shared/storage/object/local"
	"resume-tailor/internal/tailor"
)

var errRepoDown = errors.New("resume repository unavailable")

// failingResumeRepo rejects every write so upload rollback paths can be
// exercised.
type failingResumeRepo struct{}

func (failingResumeRepo) Create(ctx context.Context, resume resumes.Resume) error {
	return errRepoDown
}

func (failingResumeRepo) GetByID(ctx context.Context, userID, resumeID string) (resumes.Resume, error) {
	return resumes.Resume{}, resumes.ErrNotFound
}

func (failingResumeRepo) GetDefault(ctx context.Context, userID string) (resumes.Resume, error) {
	return resumes.Resume{}, resumes.ErrNotFound
}

func (failingResumeRepo) ListByUser(ctx context.Context, userID string) ([]resumes.Resume, error) {
	return nil, nil
}

func (failingResumeRepo) Rename(ctx context.Context, userID, resumeID, name string) (resumes.Resume, error) {
	return resumes.Resume{}, resumes.ErrNotFound
}

func (failingResumeRepo) SetDefault(ctx context.Context, userID, resumeID string) error {
	return resumes.ErrNotFound
}

func (failingResumeRepo) Delete(ctx context.Context, userID, resumeID string) (resumes.Resume, error) {
	return resumes.Resume{}, resumes.ErrNotFound
}

func (failingResumeRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

var _ resumes.Repo = failingResumeRepo{}

func storedObjects(t *testing.T, dir string) []string {
	t.Helper()
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk store dir: %v", err)
	}
	return paths
}

func TestUploadRemovesObjectWhenRecordCreationFails(t *testing.T) {
	dir := t.TempDir()
	svc := &tailor.Service{
		Sessions: sessions.NewStore(),
		Resumes:  resumes.NewService(failingResumeRepo{}),
		Store:    localstore.New(dir),
	}

	_, err := svc.Upload(context.Background(), "guest:test", "resume.docx", "", sampleDocx(t))
	if !errors.Is(err, errRepoDown) {
		t.Fatalf("expected repo error, got %v", err)
	}

	if leftover := storedObjects(t, dir); len(leftover) != 0 {
		t.Fatalf("failed upload left objects behind: %v", leftover)
	}
}
