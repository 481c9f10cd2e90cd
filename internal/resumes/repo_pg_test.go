package resumes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsAllColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	resume := Resume{
		ID:         "resume-1",
		UserID:     "user-1",
		Name:       "Backend Resume",
		FileName:   "resume.docx",
		Ext:        ".docx",
		MimeType:   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		SizeBytes:  2048,
		StorageKey: "user-1/resume-1.docx",
		Content:    "extracted text",
		Preview:    "data:image/png;base64,abcd",
		IsDefault:  true,
	}

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(
			resume.ID,
			resume.UserID,
			resume.Name,
			resume.FileName,
			resume.Ext,
			resume.MimeType,
			resume.SizeBytes,
			"local",
			resume.StorageKey,
			resume.Content,
			resume.Preview,
			resume.IsDefault,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), resume); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("user-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetDefaultClearsThenSets(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes SET is_default = FALSE").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE resumes SET is_default = TRUE").
		WithArgs("user-1", "resume-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SetDefault(context.Background(), "user-1", "resume-2"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSetDefaultUnknownIDRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes SET is_default = FALSE").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE resumes SET is_default = TRUE").
		WithArgs("user-1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := repo.SetDefault(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteDefaultPromotesNewest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "name", "file_name", "ext", "mime_type", "size_bytes",
		"storage_provider", "storage_key", "content", "preview", "is_default",
		"created_at", "updated_at",
	}).AddRow(
		"resume-1", "user-1", "Backend Resume", "resume.docx", ".docx", nil, int64(2048),
		"local", "user-1/resume-1.docx", nil, nil, true, now, now,
	)

	mock.ExpectQuery("SELECT (.+) FROM resumes").
		WithArgs("user-1", "resume-1").
		WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE resumes SET deleted_at = now").
		WithArgs("user-1", "resume-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE resumes SET is_default = TRUE").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), "user-1", "resume-1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.StorageKey != "user-1/resume-1.docx" {
		t.Fatalf("expected storage key back, got %q", deleted.StorageKey)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
