package structurer

import (
	"MenuLens/domain"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// Client is the single structuring-capable provider. It must return
	// JSON-only text for the given prompt.
	Client interface {
		Complete(ctx context.Context, prompt string) (string, error)
	}

	// Structurer converts raw extracted menu text into the canonical
	// structured schema. Parse failures fail closed with
	// domain.ErrStructuringFailed; retrying is a caller decision.
	Structurer struct {
		client Client
	}
)

func New(client Client) *Structurer {
	return &Structurer{client: client}
}

func (s *Structurer) Structure(ctx context.Context, rawText string) (domain.StructuredMenu, error) {
	response, err := s.client.Complete(ctx, BuildStructurePrompt(rawText))
	if err != nil {
		return domain.StructuredMenu{}, fmt.Errorf("%w: %v", domain.ErrStructuringFailed, err)
	}

	return parseMenu(response)
}

func parseMenu(response string) (domain.StructuredMenu, error) {
	cleaned := stripCodeFences(response)

	// Probe the raw object first: a response without a "categories" key is
	// a schema violation even if it is valid JSON.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return domain.StructuredMenu{}, fmt.Errorf("%w: invalid JSON: %v", domain.ErrStructuringFailed, err)
	}
	if _, ok := probe["categories"]; !ok {
		return domain.StructuredMenu{}, fmt.Errorf("%w: missing categories key", domain.ErrStructuringFailed)
	}

	var menu domain.StructuredMenu
	if err := json.Unmarshal([]byte(cleaned), &menu); err != nil {
		return domain.StructuredMenu{}, fmt.Errorf("%w: %v", domain.ErrStructuringFailed, err)
	}

	for _, category := range menu.Categories {
		for _, dish := range category.Dishes {
			if strings.TrimSpace(dish.Name) == "" {
				return domain.StructuredMenu{}, fmt.Errorf("%w: dish without a name in category %q", domain.ErrStructuringFailed, category.Name)
			}
		}
	}

	return menu, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
