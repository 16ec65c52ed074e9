package adapters

import (
	"context"
	"encoding/json"

	"generate-lecture-service/application/ports/outbound"
)

// staticGenerator returns a canned single-topic draft for every request.
// Lets the full pipeline run locally without a model provider.
type staticGenerator struct{}

func NewStaticGenerator() outbound.TextGeneratorPort {
	return &staticGenerator{}
}

func (g *staticGenerator) Generate(_ context.Context, _ outbound.GenerateTextRequest) (string, error) {
	payload := map[string]interface{}{
		"title": "Overview",
		"learning_objectives": []string{
			"Understand the key concepts covered in the source material",
		},
		"topics": []map[string]interface{}{
			{
				"title":  "Overview",
				"body":   "This section walks through the source material at a high level.",
				"weight": 1,
			},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
