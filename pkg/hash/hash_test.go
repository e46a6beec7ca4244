package hash

import (
	"MenuLens/domain"
	"testing"
)

func price(v float64) *float64 {
	return &v
}

func sampleMenu() domain.StructuredMenu {
	return domain.StructuredMenu{
		Restaurant: domain.RestaurantInfo{Name: "Warung Sari", Location: "Bandung"},
		Categories: []domain.MenuCategory{
			{
				Name: "Mains",
				Dishes: []domain.Dish{
					{
						Name:        "Nasi Goreng",
						Description: "Fried rice with egg",
						Price:       price(35000),
						DietaryTags: []string{"spicy", "halal"},
					},
					{
						Name:        "Gado Gado",
						Description: "Vegetables with peanut sauce",
						Price:       price(28000),
						DietaryTags: []string{"vegetarian"},
					},
				},
			},
		},
	}
}

func TestImageDigestDeterministic(t *testing.T) {
	data := []byte("fake image bytes")

	first := ImageDigest(data)
	second := ImageDigest(data)
	if first != second {
		t.Fatalf("same bytes produced different digests: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}

	other := ImageDigest([]byte("fake image bytes."))
	if other == first {
		t.Fatal("different bytes produced the same digest")
	}
}

func TestContentDigestDeterministic(t *testing.T) {
	first, err := ContentDigest(sampleMenu())
	if err != nil {
		t.Fatal(err)
	}
	second, err := ContentDigest(sampleMenu())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("same menu produced different digests: %s vs %s", first, second)
	}
}

func TestContentDigestIgnoresWhitespaceAndTagOrder(t *testing.T) {
	base, err := ContentDigest(sampleMenu())
	if err != nil {
		t.Fatal(err)
	}

	messy := sampleMenu()
	messy.Restaurant.Name = "  Warung Sari  "
	messy.Categories[0].Dishes[0].Description = "Fried  rice\n with egg"
	messy.Categories[0].Dishes[0].DietaryTags = []string{"halal", "spicy"}

	got, err := ContentDigest(messy)
	if err != nil {
		t.Fatal(err)
	}
	if got != base {
		t.Fatal("whitespace and tag order changed the digest")
	}
}

func TestContentDigestSensitiveToDishOrder(t *testing.T) {
	base, err := ContentDigest(sampleMenu())
	if err != nil {
		t.Fatal(err)
	}

	swapped := sampleMenu()
	dishes := swapped.Categories[0].Dishes
	dishes[0], dishes[1] = dishes[1], dishes[0]

	got, err := ContentDigest(swapped)
	if err != nil {
		t.Fatal(err)
	}
	if got == base {
		t.Fatal("reordering dishes did not change the digest")
	}
}

func TestContentDigestSensitiveToContent(t *testing.T) {
	base, err := ContentDigest(sampleMenu())
	if err != nil {
		t.Fatal(err)
	}

	changed := sampleMenu()
	changed.Categories[0].Dishes[0].Price = price(36000)

	got, err := ContentDigest(changed)
	if err != nil {
		t.Fatal(err)
	}
	if got == base {
		t.Fatal("price change did not change the digest")
	}
}
