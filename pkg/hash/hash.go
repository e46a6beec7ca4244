package hash

import (
	"MenuLens/domain"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// ImageDigest returns the hex-encoded SHA-256 of the raw image bytes.
// It identifies this exact photograph, not its visual content.
func ImageDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ContentDigest returns the hex-encoded SHA-256 of the normalized canonical
// serialization of a structured menu. Two menus that differ only in key
// insertion order, surrounding whitespace, or dietary tag order hash
// identically. Category and dish array order is significant and is never
// reordered.
func ContentDigest(menu domain.StructuredMenu) (string, error) {
	canonical, err := json.Marshal(normalize(menu))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func normalize(menu domain.StructuredMenu) domain.StructuredMenu {
	out := domain.StructuredMenu{
		Restaurant: domain.RestaurantInfo{
			Name:     strings.TrimSpace(menu.Restaurant.Name),
			Location: strings.TrimSpace(menu.Restaurant.Location),
		},
		Categories: make([]domain.MenuCategory, 0, len(menu.Categories)),
	}

	for _, category := range menu.Categories {
		normalized := domain.MenuCategory{
			Name:   strings.TrimSpace(category.Name),
			Dishes: make([]domain.Dish, 0, len(category.Dishes)),
		}
		for _, dish := range category.Dishes {
			normalized.Dishes = append(normalized.Dishes, normalizeDish(dish))
		}
		out.Categories = append(out.Categories, normalized)
	}

	return out
}

func normalizeDish(dish domain.Dish) domain.Dish {
	tags := make([]string, 0, len(dish.DietaryTags))
	for _, tag := range dish.DietaryTags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	// Dietary tags are a set, so their order must not affect the digest.
	sort.Strings(tags)

	return domain.Dish{
		Name:        strings.TrimSpace(dish.Name),
		Description: collapseWhitespace(dish.Description),
		Price:       dish.Price,
		DietaryTags: tags,
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
