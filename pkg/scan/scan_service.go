package scan

import (
	"MenuLens/domain"
	"MenuLens/entities"
	"MenuLens/internal/utils/storage"
	"MenuLens/pkg/extraction"
	"MenuLens/pkg/hash"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DishBatchSize bounds the row count of a single dish insert request.
const DishBatchSize = 10

type (
	// Extractor runs the provider cascade. Satisfied by *extraction.Cascade.
	Extractor interface {
		Run(ctx context.Context, image []byte, mimeType string) (extraction.ExtractedText, error)
	}

	// MenuStructurer converts raw text into the canonical menu schema.
	// Satisfied by *structurer.Structurer.
	MenuStructurer interface {
		Structure(ctx context.Context, rawText string) (domain.StructuredMenu, error)
	}

	ScanService interface {
		ScanMenu(ctx context.Context, req domain.ScanMenuRequest, userID string) (domain.ScanMenuResult, error)
		GetScanHistory(ctx context.Context, userID string, page, limit int) ([]domain.ScanSummary, int64, error)
		GetScanByID(ctx context.Context, id string, userID string) (domain.ScanDetailResponse, error)
		GetCanonicalMenu(ctx context.Context, id string) (domain.CanonicalMenuResponse, error)
	}

	scanService struct {
		scanRepository ScanRepository
		deduper        *Deduper
		extractor      Extractor
		structurer     MenuStructurer
		s3             storage.AwsS3
	}
)

func NewScanService(scanRepository ScanRepository, extractor Extractor, structurer MenuStructurer, s3 storage.AwsS3) ScanService {
	return &scanService{
		scanRepository: scanRepository,
		deduper:        NewDeduper(scanRepository),
		extractor:      extractor,
		structurer:     structurer,
		s3:             s3,
	}
}

// ScanMenu runs the full ingest pipeline: image hash, provider cascade,
// structuring, content hash, dedup classification, then the persistence
// protocol. No writes happen before persistence is entered, so cancellation
// up to that point is always safe.
func (s *scanService) ScanMenu(ctx context.Context, req domain.ScanMenuRequest, userID string) (domain.ScanMenuResult, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ScanMenuResult{}, domain.ErrParseUUID
	}

	imageData, mimeType, err := readImage(req.MenuImage)
	if err != nil {
		return domain.ScanMenuResult{}, err
	}

	imageHash := hash.ImageDigest(imageData)

	extracted, err := s.extractor.Run(ctx, imageData, mimeType)
	if err != nil {
		var exhausted *extraction.ExhaustedError
		if errors.As(err, &exhausted) {
			return domain.ScanMenuResult{}, errors.Join(domain.ErrExtractionExhausted, exhausted)
		}
		return domain.ScanMenuResult{}, err
	}

	menu, err := s.structurer.Structure(ctx, extracted.Text)
	if err != nil {
		return domain.ScanMenuResult{}, err
	}

	contentHash, err := hash.ContentDigest(menu)
	if err != nil {
		return domain.ScanMenuResult{}, err
	}

	imageURL := s.uploadImage(req.MenuImage, imageHash)

	return s.persist(ctx, userUUID, menu, extracted, imageHash, contentHash, imageURL)
}

// persist runs the save protocol: dedup check, lazy user profile, then the
// strictly ordered writes. No global lock is taken; races on canonical
// creation resolve through the content_hash unique constraint.
func (s *scanService) persist(
	ctx context.Context,
	userID uuid.UUID,
	menu domain.StructuredMenu,
	extracted extraction.ExtractedText,
	imageHash, contentHash, imageURL string,
) (domain.ScanMenuResult, error) {
	classification, err := s.deduper.Classify(ctx, userID, imageHash, contentHash)
	if err != nil {
		return domain.ScanMenuResult{}, err
	}

	if classification.Kind == ClassUserDuplicate {
		prior := classification.ExistingScan
		return domain.ScanMenuResult{
			ScanID:       prior.ID.String(),
			Method:       domain.ScanMethodDuplicateImage,
			CanonicalID:  prior.CanonicalMenuID.String(),
			NewDishes:    false,
			ExistingScan: toScanSummary(prior),
		}, nil
	}

	if err := s.scanRepository.EnsureUser(ctx, userID, placeholderEmail(userID)); err != nil {
		return domain.ScanMenuResult{}, err
	}

	if classification.Kind == ClassCanonicalMatch {
		return s.persistReuse(ctx, userID, classification.CanonicalMenu, menu, extracted, imageHash, imageURL)
	}

	return s.persistNovel(ctx, userID, menu, extracted, imageHash, contentHash, imageURL)
}

func (s *scanService) persistReuse(
	ctx context.Context,
	userID uuid.UUID,
	canonical *entities.CanonicalMenu,
	menu domain.StructuredMenu,
	extracted extraction.ExtractedText,
	imageHash, imageURL string,
) (domain.ScanMenuResult, error) {
	record := newScanRecord(userID, canonical.ID, menu, extracted, imageHash, imageURL)
	if err := s.scanRepository.CreateScan(ctx, record); err != nil {
		return domain.ScanMenuResult{}, err
	}

	return domain.ScanMenuResult{
		ScanID:      record.ID.String(),
		Method:      domain.ScanMethodCanonicalReuse,
		CanonicalID: canonical.ID.String(),
		DishCount:   canonical.DishCount,
		NewDishes:   false,
	}, nil
}

func (s *scanService) persistNovel(
	ctx context.Context,
	userID uuid.UUID,
	menu domain.StructuredMenu,
	extracted extraction.ExtractedText,
	imageHash, contentHash, imageURL string,
) (domain.ScanMenuResult, error) {
	dishes := flattenDishes(menu)

	canonical := &entities.CanonicalMenu{
		ID:          uuid.New(),
		ContentHash: contentHash,
		DishCount:   len(dishes),
		CreatedAt:   time.Now(),
	}

	if err := s.scanRepository.CreateCanonicalMenu(ctx, canonical); err != nil {
		if IsUniqueViolation(err) {
			// Another scan created this canonical menu first. Re-read and
			// proceed as a canonical match.
			existing, readErr := s.scanRepository.FindCanonicalByContentHash(ctx, contentHash)
			if readErr != nil {
				return domain.ScanMenuResult{}, readErr
			}
			return s.persistReuse(ctx, userID, existing, menu, extracted, imageHash, imageURL)
		}
		return domain.ScanMenuResult{}, err
	}

	record := newScanRecord(userID, canonical.ID, menu, extracted, imageHash, imageURL)
	if err := s.scanRepository.CreateScan(ctx, record); err != nil {
		return domain.ScanMenuResult{}, err
	}

	if err := s.scanRepository.SetFirstScanID(ctx, canonical.ID, record.ID); err != nil {
		log.Printf("scan %s: first_scan_id backfill failed: %v", record.ID, err)
	}

	inserted := 0
	for start := 0; start < len(dishes); start += DishBatchSize {
		end := start + DishBatchSize
		if end > len(dishes) {
			end = len(dishes)
		}
		batch := make([]*entities.MenuDish, 0, end-start)
		for _, dish := range dishes[start:end] {
			row := dish
			row.CanonicalMenuID = canonical.ID
			batch = append(batch, &row)
		}
		if err := s.scanRepository.InsertDishes(ctx, batch); err != nil {
			log.Printf("canonical menu %s: dish batch %d-%d failed: %v", canonical.ID, start, end, err)
			continue
		}
		inserted += len(batch)
	}

	return domain.ScanMenuResult{
		ScanID:      record.ID.String(),
		Method:      domain.ScanMethodNewCanonical,
		CanonicalID: canonical.ID.String(),
		DishCount:   inserted,
		NewDishes:   true,
	}, nil
}

func (s *scanService) GetScanHistory(ctx context.Context, userID string, page, limit int) ([]domain.ScanSummary, int64, error) {
	scans, count, err := s.scanRepository.GetScansByUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ScanSummary, 0, len(scans))
	for _, scan := range scans {
		response = append(response, *toScanSummary(scan))
	}
	return response, count, nil
}

func (s *scanService) GetScanByID(ctx context.Context, id string, userID string) (domain.ScanDetailResponse, error) {
	scan, err := s.scanRepository.GetScanByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ScanDetailResponse{}, domain.ErrScanNotFound
		}
		return domain.ScanDetailResponse{}, err
	}

	if scan.UserID.String() != userID {
		return domain.ScanDetailResponse{}, domain.ErrUserNotAllowed
	}

	return domain.ScanDetailResponse{
		ScanSummary: *toScanSummary(scan),
		MenuRawText: scan.MenuRawText,
	}, nil
}

func (s *scanService) GetCanonicalMenu(ctx context.Context, id string) (domain.CanonicalMenuResponse, error) {
	menu, err := s.scanRepository.GetCanonicalMenuByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CanonicalMenuResponse{}, domain.ErrMenuNotFound
		}
		return domain.CanonicalMenuResponse{}, err
	}

	response := domain.CanonicalMenuResponse{
		ID:          menu.ID.String(),
		ContentHash: menu.ContentHash,
		DishCount:   menu.DishCount,
		CreatedAt:   menu.CreatedAt,
		Dishes:      make([]domain.DishResponse, 0, len(menu.Dishes)),
	}
	if menu.FirstScanID != nil {
		response.FirstScanID = menu.FirstScanID.String()
	}
	for _, dish := range menu.Dishes {
		response.Dishes = append(response.Dishes, domain.DishResponse{
			ID:          dish.ID.String(),
			Name:        dish.DishName,
			Description: dish.Description,
			Price:       dish.Price,
			Category:    dish.Category,
			Tags:        decodeTags(dish.Tags),
		})
	}
	return response, nil
}

// uploadImage pushes the photo to object storage for history display.
// Failures are logged, never propagated: the pipeline does not depend on
// the blob existing.
func (s *scanService) uploadImage(file *multipart.FileHeader, imageHash string) string {
	if s.s3 == nil {
		return ""
	}
	fileName := fmt.Sprintf("menu-%s", imageHash[:16])
	objectKey, err := s.s3.UploadFile(fileName, file, "menus", storage.AllowImage...)
	if err != nil {
		log.Printf("menu image upload failed: %v", err)
		return ""
	}
	return s.s3.GetPublicLinkKey(objectKey)
}

func newScanRecord(
	userID, canonicalMenuID uuid.UUID,
	menu domain.StructuredMenu,
	extracted extraction.ExtractedText,
	imageHash, imageURL string,
) *entities.MenuScan {
	return &entities.MenuScan{
		ID:              uuid.New(),
		UserID:          userID,
		MenuRawText:     extracted.Text,
		ScannedAt:       time.Now(),
		RestaurantName:  menu.Restaurant.Name,
		Location:        menu.Restaurant.Location,
		OcrMethod:       extracted.Provider,
		ImageHash:       imageHash,
		ImageURL:        imageURL,
		CanonicalMenuID: canonicalMenuID,
	}
}

// flattenDishes walks categories and dishes in transcription order.
func flattenDishes(menu domain.StructuredMenu) []entities.MenuDish {
	var dishes []entities.MenuDish
	for _, category := range menu.Categories {
		for _, dish := range category.Dishes {
			dishes = append(dishes, entities.MenuDish{
				ID:          uuid.New(),
				DishName:    dish.Name,
				Description: dish.Description,
				Price:       dish.Price,
				Category:    category.Name,
				Tags:        encodeTags(dish.DietaryTags),
			})
		}
	}
	return dishes
}

func toScanSummary(scan *entities.MenuScan) *domain.ScanSummary {
	return &domain.ScanSummary{
		ID:              scan.ID.String(),
		RestaurantName:  scan.RestaurantName,
		Location:        scan.Location,
		OcrMethod:       scan.OcrMethod,
		ScannedAt:       scan.ScannedAt,
		CanonicalMenuID: scan.CanonicalMenuID.String(),
		ImageURL:        scan.ImageURL,
	}
}

func readImage(file *multipart.FileHeader) ([]byte, string, error) {
	if file == nil {
		return nil, "", domain.ErrEmptyImage
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", domain.ErrEmptyImage
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		switch strings.ToLower(filepath.Ext(file.Filename)) {
		case ".png":
			mimeType = "image/png"
		case ".webp":
			mimeType = "image/webp"
		default:
			mimeType = "image/jpeg"
		}
	}

	return data, mimeType, nil
}

// placeholderEmail fills the minimal profile row for a user seen through
// auth before registration completed. Derived from the id so the unique
// email index never collides.
func placeholderEmail(userID uuid.UUID) string {
	return userID.String() + "@pending.menulens.app"
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

func decodeTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	return tags
}
