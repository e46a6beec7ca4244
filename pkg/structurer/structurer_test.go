package structurer

import (
	"MenuLens/domain"
	"context"
	"errors"
	"testing"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
}

func (c *fakeClient) Complete(ctx context.Context, prompt string) (string, error) {
	c.prompt = prompt
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

const validMenuJSON = `{
	"restaurant": {"name": "Warung Sari", "location": "Bandung"},
	"categories": [
		{
			"name": "Mains",
			"dishes": [
				{"name": "Nasi Goreng", "description": "Fried rice", "price": 35000, "dietary_tags": ["spicy"]},
				{"name": "Gado Gado", "description": "", "price": null, "dietary_tags": []}
			]
		}
	]
}`

func TestStructureValidResponse(t *testing.T) {
	client := &fakeClient{response: validMenuJSON}
	s := New(client)

	menu, err := s.Structure(context.Background(), "raw menu text")
	if err != nil {
		t.Fatal(err)
	}
	if menu.Restaurant.Name != "Warung Sari" {
		t.Fatalf("unexpected restaurant: %q", menu.Restaurant.Name)
	}
	if len(menu.Categories) != 1 || len(menu.Categories[0].Dishes) != 2 {
		t.Fatalf("unexpected shape: %+v", menu.Categories)
	}
	if menu.Categories[0].Dishes[1].Price != nil {
		t.Fatal("missing price should stay nil")
	}
	if client.prompt == "" {
		t.Fatal("prompt was never built")
	}
}

func TestStructureStripsCodeFences(t *testing.T) {
	client := &fakeClient{response: "```json\n" + validMenuJSON + "\n```"}
	s := New(client)

	menu, err := s.Structure(context.Background(), "raw menu text")
	if err != nil {
		t.Fatal(err)
	}
	if len(menu.Categories) != 1 {
		t.Fatalf("unexpected categories: %+v", menu.Categories)
	}
}

func TestStructureInvalidJSON(t *testing.T) {
	client := &fakeClient{response: "Sure! Here is the menu you asked for."}
	s := New(client)

	_, err := s.Structure(context.Background(), "raw menu text")
	if !errors.Is(err, domain.ErrStructuringFailed) {
		t.Fatalf("expected ErrStructuringFailed, got %v", err)
	}
}

func TestStructureMissingCategoriesKey(t *testing.T) {
	client := &fakeClient{response: `{"restaurant": {"name": "X", "location": ""}}`}
	s := New(client)

	_, err := s.Structure(context.Background(), "raw menu text")
	if !errors.Is(err, domain.ErrStructuringFailed) {
		t.Fatalf("expected ErrStructuringFailed, got %v", err)
	}
}

func TestStructureRejectsNamelessDish(t *testing.T) {
	client := &fakeClient{response: `{
		"restaurant": {"name": "X", "location": ""},
		"categories": [{"name": "Mains", "dishes": [{"name": "  ", "description": "", "price": null, "dietary_tags": []}]}]
	}`}
	s := New(client)

	_, err := s.Structure(context.Background(), "raw menu text")
	if !errors.Is(err, domain.ErrStructuringFailed) {
		t.Fatalf("expected ErrStructuringFailed, got %v", err)
	}
}

func TestStructureClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("upstream 500")}
	s := New(client)

	_, err := s.Structure(context.Background(), "raw menu text")
	if !errors.Is(err, domain.ErrStructuringFailed) {
		t.Fatalf("expected ErrStructuringFailed, got %v", err)
	}
}
