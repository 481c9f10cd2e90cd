package resumes

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "resume not found" }

// Repo stores resume records. Implementations must keep at most one
// default record per user.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	GetDefault(ctx context.Context, userID string) (Resume, error)
	ListByUser(ctx context.Context, userID string) ([]Resume, error)
	Rename(ctx context.Context, userID, resumeID, name string) (Resume, error)
	SetDefault(ctx context.Context, userID, resumeID string) error
	// Delete soft-deletes the record and returns it. When the deleted
	// record was the default, the newest remaining record is promoted.
	Delete(ctx context.Context, userID, resumeID string) (Resume, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
