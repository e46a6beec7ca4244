package scan

import (
	"MenuLens/entities"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type stubDedupRepo struct {
	*fakeScanRepository
	scanErr      error
	canonicalErr error
}

func (r *stubDedupRepo) FindLatestScanByImageHash(ctx context.Context, userID uuid.UUID, imageHash string) (*entities.MenuScan, error) {
	if r.scanErr != nil {
		return nil, r.scanErr
	}
	return r.fakeScanRepository.FindLatestScanByImageHash(ctx, userID, imageHash)
}

func (r *stubDedupRepo) FindCanonicalByContentHash(ctx context.Context, contentHash string) (*entities.CanonicalMenu, error) {
	if r.canonicalErr != nil {
		return nil, r.canonicalErr
	}
	return r.fakeScanRepository.FindCanonicalByContentHash(ctx, contentHash)
}

func newStubDedupRepo() *stubDedupRepo {
	return &stubDedupRepo{fakeScanRepository: newFakeScanRepository()}
}

func TestClassifyUserDuplicateWinsOverCanonicalMatch(t *testing.T) {
	repo := newStubDedupRepo()
	userID := uuid.New()
	prior := &entities.MenuScan{ID: uuid.New(), UserID: userID, ImageHash: "img-1", CanonicalMenuID: uuid.New()}
	repo.scans = append(repo.scans, prior)
	repo.canonicals["content-1"] = &entities.CanonicalMenu{ID: uuid.New(), ContentHash: "content-1"}

	got, err := NewDeduper(repo).Classify(context.Background(), userID, "img-1", "content-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != ClassUserDuplicate {
		t.Fatalf("expected user duplicate, got %s", got.Kind)
	}
	if got.ExistingScan.ID != prior.ID {
		t.Fatal("wrong prior scan returned")
	}
}

func TestClassifyCanonicalMatchForOtherUsersImage(t *testing.T) {
	repo := newStubDedupRepo()
	otherUser := &entities.MenuScan{ID: uuid.New(), UserID: uuid.New(), ImageHash: "img-1"}
	repo.scans = append(repo.scans, otherUser)
	canonical := &entities.CanonicalMenu{ID: uuid.New(), ContentHash: "content-1"}
	repo.canonicals["content-1"] = canonical

	got, err := NewDeduper(repo).Classify(context.Background(), uuid.New(), "img-1", "content-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != ClassCanonicalMatch {
		t.Fatalf("expected canonical match, got %s", got.Kind)
	}
	if got.CanonicalMenu.ID != canonical.ID {
		t.Fatal("wrong canonical menu returned")
	}
}

func TestClassifyNovel(t *testing.T) {
	got, err := NewDeduper(newStubDedupRepo()).Classify(context.Background(), uuid.New(), "img-x", "content-x")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != ClassNovel {
		t.Fatalf("expected novel, got %s", got.Kind)
	}
}

func TestClassifyTreatsMissingColumnAsNotFound(t *testing.T) {
	repo := newStubDedupRepo()
	repo.scanErr = errors.New(`ERROR: column "image_hash" does not exist (SQLSTATE 42703)`)
	repo.canonicalErr = errors.New(`ERROR: column "content_hash" does not exist (SQLSTATE 42703)`)

	got, err := NewDeduper(repo).Classify(context.Background(), uuid.New(), "img-x", "content-x")
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != ClassNovel {
		t.Fatalf("expected novel on missing columns, got %s", got.Kind)
	}
}

func TestClassifyPropagatesRealErrors(t *testing.T) {
	repo := newStubDedupRepo()
	repo.scanErr = errors.New("connection refused")

	_, err := NewDeduper(repo).Classify(context.Background(), uuid.New(), "img-x", "content-x")
	if err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(errors.New(`duplicate key value violates unique constraint "x" (SQLSTATE 23505)`)) {
		t.Fatal("postgres unique violation not detected")
	}
	if IsUniqueViolation(errors.New("connection refused")) {
		t.Fatal("unrelated error flagged as unique violation")
	}
	if IsUniqueViolation(nil) {
		t.Fatal("nil flagged as unique violation")
	}
}
