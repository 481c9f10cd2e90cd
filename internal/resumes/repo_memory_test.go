package resumes

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestServiceFirstUploadBecomesDefault(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	first, err := svc.CreateFromUpload(ctx, Resume{UserID: "user-1", FileName: "a.docx", Ext: ".docx"})
	if err != nil {
		t.Fatalf("CreateFromUpload: %v", err)
	}
	if !first.IsDefault {
		t.Fatalf("expected first record to be default")
	}
	if first.Name != "a.docx" {
		t.Fatalf("expected name to fall back to file name, got %q", first.Name)
	}

	second, err := svc.CreateFromUpload(ctx, Resume{UserID: "user-1", FileName: "b.docx", Ext: ".docx"})
	if err != nil {
		t.Fatalf("CreateFromUpload: %v", err)
	}
	if second.IsDefault {
		t.Fatalf("expected second record to not be default")
	}

	def, err := svc.GetDefault(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetDefault: %v", err)
	}
	if def.ID != first.ID {
		t.Fatalf("expected default %s, got %s", first.ID, def.ID)
	}
}

func TestMemoryRepoSetDefaultIsExclusive(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	for _, id := range []string{"r1", "r2", "r3"} {
		if err := repo.Create(ctx, Resume{ID: id, UserID: "user-1", IsDefault: id == "r1"}); err != nil {
			t.Fatalf("Create %s: %v", id, err)
		}
	}

	if err := repo.SetDefault(ctx, "user-1", "r3"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}

	records, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	defaults := 0
	for _, r := range records {
		if r.IsDefault {
			defaults++
			if r.ID != "r3" {
				t.Fatalf("expected r3 to be default, got %s", r.ID)
			}
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default, got %d", defaults)
	}
	if records[0].ID != "r3" {
		t.Fatalf("expected default record listed first, got %s", records[0].ID)
	}
}

func TestMemoryRepoDeleteDefaultPromotesNewest(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	base := time.Now().UTC()
	seed := []Resume{
		{ID: "r1", UserID: "user-1", IsDefault: true},
		{ID: "r2", UserID: "user-1"},
		{ID: "r3", UserID: "user-1"},
	}
	for i, r := range seed {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create %s: %v", r.ID, err)
		}
		// Spread creation times so "newest" is unambiguous.
		repo.data["user-1"][i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
	}

	deleted, err := repo.Delete(ctx, "user-1", "r1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.ID != "r1" {
		t.Fatalf("expected deleted r1, got %s", deleted.ID)
	}

	def, err := repo.GetDefault(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetDefault: %v", err)
	}
	if def.ID != "r3" {
		t.Fatalf("expected newest record r3 promoted, got %s", def.ID)
	}

	if _, err := repo.GetByID(ctx, "user-1", "r1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted record, got %v", err)
	}
}

func TestMemoryRepoScopesByUser(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, Resume{ID: "r1", UserID: "user-1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetByID(ctx, "user-2", "r1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if _, err := repo.Rename(ctx, "user-2", "r1", "stolen"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user rename, got %v", err)
	}
}
