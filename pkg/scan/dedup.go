package scan

import (
	"MenuLens/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Classification kinds for an incoming scan.
const (
	ClassUserDuplicate  = "user_duplicate"
	ClassCanonicalMatch = "canonical_match"
	ClassNovel          = "novel"
)

type (
	// Classification is the dedup verdict for one incoming scan.
	Classification struct {
		Kind          string
		ExistingScan  *entities.MenuScan
		CanonicalMenu *entities.CanonicalMenu
	}

	// Deduper classifies an incoming scan against existing records using
	// read-only queries.
	Deduper struct {
		repo ScanRepository
	}
)

func NewDeduper(repo ScanRepository) *Deduper {
	return &Deduper{repo: repo}
}

// Classify checks, in order: a prior scan by the same user with the same
// image hash (short-circuits every other check), then an existing canonical
// menu with the same content hash. Missing columns are treated as "not
// found" to stay forward-compatible with schema evolution.
func (d *Deduper) Classify(ctx context.Context, userID uuid.UUID, imageHash, contentHash string) (Classification, error) {
	existing, err := d.repo.FindLatestScanByImageHash(ctx, userID, imageHash)
	if err != nil && !isNotFound(err) {
		return Classification{}, err
	}
	if existing != nil {
		return Classification{Kind: ClassUserDuplicate, ExistingScan: existing}, nil
	}

	canonical, err := d.repo.FindCanonicalByContentHash(ctx, contentHash)
	if err != nil && !isNotFound(err) {
		return Classification{}, err
	}
	if canonical != nil {
		return Classification{Kind: ClassCanonicalMatch, CanonicalMenu: canonical}, nil
	}

	return Classification{Kind: ClassNovel}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || IsMissingColumn(err)
}
