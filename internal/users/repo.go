package users

import "context"

// ErrNotFound is returned when no account exists for the requested ID.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "no account for that user id" }

// Repo persists accounts. Upsert must tolerate reruns: the OAuth
// callback invokes it on every sign-in.
type Repo interface {
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
}
