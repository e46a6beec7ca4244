package scan

import (
	"MenuLens/entities"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ScanRepository interface {
		FindLatestScanByImageHash(ctx context.Context, userID uuid.UUID, imageHash string) (*entities.MenuScan, error)
		FindCanonicalByContentHash(ctx context.Context, contentHash string) (*entities.CanonicalMenu, error)
		EnsureUser(ctx context.Context, userID uuid.UUID, email string) error
		CreateCanonicalMenu(ctx context.Context, menu *entities.CanonicalMenu) error
		CreateScan(ctx context.Context, scan *entities.MenuScan) error
		SetFirstScanID(ctx context.Context, canonicalMenuID, scanID uuid.UUID) error
		InsertDishes(ctx context.Context, dishes []*entities.MenuDish) error
		GetCanonicalMenuByID(ctx context.Context, id string) (*entities.CanonicalMenu, error)
		GetScanByID(ctx context.Context, id string) (*entities.MenuScan, error)
		GetScansByUser(ctx context.Context, userID string, page, limit int) ([]*entities.MenuScan, int64, error)
	}

	scanRepository struct {
		db *gorm.DB
	}
)

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) FindLatestScanByImageHash(ctx context.Context, userID uuid.UUID, imageHash string) (*entities.MenuScan, error) {
	var scan entities.MenuScan
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND image_hash = ?", userID, imageHash).
		Order("scanned_at desc").
		First(&scan).Error
	if err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *scanRepository) FindCanonicalByContentHash(ctx context.Context, contentHash string) (*entities.CanonicalMenu, error) {
	var menu entities.CanonicalMenu
	err := r.db.WithContext(ctx).
		Where("content_hash = ?", contentHash).
		First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// EnsureUser lazily creates a minimal user profile. A concurrent create
// racing on the primary key or email is treated as "already exists".
func (r *scanRepository) EnsureUser(ctx context.Context, userID uuid.UUID, email string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Create(&entities.User{
		ID:    userID,
		Email: email,
		Role:  "user",
	}).Error
	if err != nil && IsUniqueViolation(err) {
		return nil
	}
	return err
}

func (r *scanRepository) CreateCanonicalMenu(ctx context.Context, menu *entities.CanonicalMenu) error {
	return r.db.WithContext(ctx).Create(menu).Error
}

func (r *scanRepository) CreateScan(ctx context.Context, scan *entities.MenuScan) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *scanRepository) SetFirstScanID(ctx context.Context, canonicalMenuID, scanID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&entities.CanonicalMenu{}).
		Where("id = ?", canonicalMenuID).
		Update("first_scan_id", scanID).Error
}

func (r *scanRepository) InsertDishes(ctx context.Context, dishes []*entities.MenuDish) error {
	if len(dishes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(dishes).Error
}

func (r *scanRepository) GetCanonicalMenuByID(ctx context.Context, id string) (*entities.CanonicalMenu, error) {
	var menu entities.CanonicalMenu
	err := r.db.WithContext(ctx).
		Preload("Dishes").
		Where("id = ?", id).
		First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *scanRepository) GetScanByID(ctx context.Context, id string) (*entities.MenuScan, error) {
	var scan entities.MenuScan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&scan).Error
	if err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *scanRepository) GetScansByUser(ctx context.Context, userID string, page, limit int) ([]*entities.MenuScan, int64, error) {
	var scans []*entities.MenuScan
	var count int64

	query := r.db.WithContext(ctx).Model(&entities.MenuScan{}).Where("user_id = ?", userID)
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("scanned_at desc").Offset(offset).Limit(limit).Find(&scans).Error; err != nil {
		return nil, 0, err
	}

	return scans, count, nil
}

// IsUniqueViolation reports whether err is a relational unique-constraint
// conflict. Uniqueness constraints, not application locking, are the
// concurrency-safety mechanism for canonical menu creation and lazy user
// profiles.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key")
}

// IsMissingColumn reports whether err is an undefined-column error. Dedup
// reads treat it as "not found" so older schemas keep working during
// migration rollout.
func IsMissingColumn(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 42703") || strings.Contains(msg, "does not exist")
}
