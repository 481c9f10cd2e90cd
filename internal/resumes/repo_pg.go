package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The default flag is swapped
// inside a transaction so the partial unique index never trips.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, name, file_name, ext, mime_type, size_bytes, storage_provider, storage_key, content, preview, is_default, created_at, updated_at`

// Create inserts a new resume record.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, name, file_name, ext, mime_type, size_bytes, storage_provider, storage_key, content, preview, is_default, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())`

	storageProvider := resume.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		resume.ID,
		resume.UserID,
		resume.Name,
		resume.FileName,
		resume.Ext,
		nullableString(resume.MimeType),
		resume.SizeBytes,
		storageProvider,
		nullableString(resume.StorageKey),
		nullableString(resume.Content),
		nullableString(resume.Preview),
		resume.IsDefault,
	)
	return err
}

// GetByID fetches a record by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID, resumeID))
}

// GetDefault fetches the user's default record.
func (r *PGRepo) GetDefault(ctx context.Context, userID string) (Resume, error) {
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1 AND is_default AND deleted_at IS NULL
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

// ListByUser lists records, default first, then newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY is_default DESC, created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		resume, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// Rename updates the display name.
func (r *PGRepo) Rename(ctx context.Context, userID, resumeID, name string) (Resume, error) {
	const query = `
UPDATE resumes
SET name = $1, updated_at = now()
WHERE user_id = $2 AND id = $3 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, name, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if updated, _ := res.RowsAffected(); updated == 0 {
		return Resume{}, ErrNotFound
	}
	return r.GetByID(ctx, userID, resumeID)
}

// SetDefault makes the record the user's only default.
func (r *PGRepo) SetDefault(ctx context.Context, userID, resumeID string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE resumes SET is_default = FALSE, updated_at = now() WHERE user_id = $1 AND is_default AND deleted_at IS NULL`,
		userID,
	); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE resumes SET is_default = TRUE, updated_at = now() WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, resumeID,
	)
	if err != nil {
		return err
	}
	if updated, _ := res.RowsAffected(); updated == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// Delete soft-deletes a record and promotes the newest remaining record
// when the default was removed.
func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) (Resume, error) {
	resume, err := r.GetByID(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Resume{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE resumes SET deleted_at = now(), is_default = FALSE, updated_at = now() WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, resumeID,
	)
	if err != nil {
		return Resume{}, err
	}
	if updated, _ := res.RowsAffected(); updated == 0 {
		return Resume{}, ErrNotFound
	}

	if resume.IsDefault {
		if _, err := tx.ExecContext(ctx, `
UPDATE resumes SET is_default = TRUE, updated_at = now()
WHERE id = (
    SELECT id FROM resumes
    WHERE user_id = $1 AND deleted_at IS NULL
    ORDER BY created_at DESC
    LIMIT 1
)`, userID); err != nil {
			return Resume{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// CountByUser counts live records for a user.
func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM resumes WHERE user_id = $1 AND deleted_at IS NULL`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row *sql.Row) (Resume, error) {
	resume, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, fmt.Errorf("scan resume: %w", err)
	}
	return resume, nil
}

func (r *PGRepo) scanRow(row rowScanner) (Resume, error) {
	var resume Resume
	var mimeType sql.NullString
	var storageProvider sql.NullString
	var storageKey sql.NullString
	var content sql.NullString
	var preview sql.NullString
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Name,
		&resume.FileName,
		&resume.Ext,
		&mimeType,
		&resume.SizeBytes,
		&storageProvider,
		&storageKey,
		&content,
		&preview,
		&resume.IsDefault,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	if mimeType.Valid {
		resume.MimeType = mimeType.String
	}
	if storageProvider.Valid {
		resume.StorageProvider = storageProvider.String
	}
	if storageKey.Valid {
		resume.StorageKey = storageKey.String
	}
	if content.Valid {
		resume.Content = content.String
	}
	if preview.Valid {
		resume.Preview = preview.String
	}
	return resume, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
