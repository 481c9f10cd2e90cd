package sessions

import (
	"context"
	"errors"
	"testing"
)

func TestLifecycleMovesForwardOnly(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, err := store.Create(ctx, Session{UserID: "u1", FileName: "resume.docx"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.State != StateUploaded {
		t.Fatalf("expected uploaded state, got %s", created.State)
	}

	for _, next := range []State{StateAnalyzed, StateOptimized, StateDownloaded} {
		if _, err := store.Advance(ctx, "u1", created.ID, next, nil); err != nil {
			t.Fatalf("Advance to %s: %v", next, err)
		}
	}

	// backward move is rejected
	if _, err := store.Advance(ctx, "u1", created.ID, StateAnalyzed, nil); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("expected ErrBadTransition, got %v", err)
	}
}

func TestSkippingStatesIsAllowedForward(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, _ := store.Create(ctx, Session{UserID: "u1"})
	// optimize without a prior keyword analysis
	if _, err := store.Advance(ctx, "u1", created.ID, StateOptimized, nil); err != nil {
		t.Fatalf("Advance uploaded->optimized: %v", err)
	}
}

func TestGetScopesByUser(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, _ := store.Create(ctx, Session{UserID: "u1"})
	if _, err := store.Get(ctx, "u2", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if _, err := store.Get(ctx, "u1", created.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestCleanUpDropsPayloadAndHidesSession(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, _ := store.Create(ctx, Session{UserID: "u1", WorkingDocx: []byte("zip")})
	if err := store.CleanUp(ctx, "u1", created.ID); err != nil {
		t.Fatalf("CleanUp: %v", err)
	}
	if _, err := store.Get(ctx, "u1", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cleaned-up session should be hidden, got %v", err)
	}
	if err := store.CleanUp(ctx, "u1", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second cleanup should be not found, got %v", err)
	}
	if n := len(store.data); n != 0 {
		t.Fatalf("cleaned-up session left %d entries in the store", n)
	}
}

func TestTouchKeepsState(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	created, _ := store.Create(ctx, Session{UserID: "u1"})
	updated, err := store.Touch(ctx, "u1", created.ID, func(s *Session) {
		s.OptimizedText = "tailored"
	})
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if updated.State != StateUploaded {
		t.Fatalf("Touch must not change state, got %s", updated.State)
	}
	if updated.OptimizedText != "tailored" {
		t.Fatalf("mutation lost: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) && !updated.UpdatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("UpdatedAt went backwards")
	}
}
