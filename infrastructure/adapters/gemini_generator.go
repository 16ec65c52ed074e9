package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/config"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// geminiGenerator speaks the native Gemini generateContent protocol.
type geminiGenerator struct {
	logger         outbound.LoggerPort
	fetcher        ContentFetcher
	providerConfig *config.ProviderConfig
}

func NewGeminiGenerator(logger outbound.LoggerPort, fetcher ContentFetcher, providerConfig *config.ProviderConfig) outbound.TextGeneratorPort {
	return &geminiGenerator{
		logger:         logger,
		fetcher:        fetcher,
		providerConfig: providerConfig,
	}
}

func (g *geminiGenerator) Generate(ctx context.Context, req outbound.GenerateTextRequest) (string, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}

	payloadBytes, err := json.Marshal(body)
	if err != nil {
		g.logger.Error(err, "Failed to marshal the request body")
		return "", err
	}

	apiURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(g.providerConfig.ApiUrl, "/"), g.providerConfig.Model, g.providerConfig.ApiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		g.logger.Error(err, "Failed to create the HTTP request")
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	payload, err := g.fetcher.FetchContent(httpReq)
	if err != nil {
		return "", err
	}

	var parsed geminiResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		g.logger.Error(err, "Failed to unmarshal generateContent response")
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generateContent response has no candidates")
	}

	var builder strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		builder.WriteString(part.Text)
	}

	return builder.String(), nil
}
