package structurer

// BuildStructurePrompt embeds the raw extracted text into the fixed
// structuring instruction. The prompt is deterministic for a given input so
// retries of the whole pipeline reproduce the same request.
func BuildStructurePrompt(rawText string) string {
	return `You are a data extraction engine for restaurant menus.

Your task:
- Convert the menu text below into STRICT JSON.
- Output MUST be valid JSON.
- Output MUST start with { and end with }.
- Output MUST contain ONLY JSON. No explanations, no markdown, no comments.

Required JSON schema:
{
  "restaurant": {
    "name": "string",
    "location": "string"
  },
  "categories": [
    {
      "name": "string",
      "dishes": [
        {
          "name": "string",
          "description": "string",
          "price": number or null,
          "dietary_tags": ["string"]
        }
      ]
    }
  ]
}

Rules:
- Every dish MUST have a name.
- If a dish has no visible price, use null. Never invent a price.
- dietary_tags may ONLY contain tags explicitly printed in the menu text
  (for example "vegan", "gluten-free"). Never infer a tag from the dish
  itself.
- Keep categories and dishes in the order they appear in the text.
- If the text contains no menu at all, return {"restaurant":{"name":"","location":""},"categories":[]}

MENU TEXT:
` + rawText
}
