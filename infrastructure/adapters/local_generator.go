package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/config"
)

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// localGenerator runs against an Ollama-style local model server.
type localGenerator struct {
	logger         outbound.LoggerPort
	fetcher        ContentFetcher
	providerConfig *config.ProviderConfig
}

func NewLocalGenerator(logger outbound.LoggerPort, fetcher ContentFetcher, providerConfig *config.ProviderConfig) outbound.TextGeneratorPort {
	return &localGenerator{
		logger:         logger,
		fetcher:        fetcher,
		providerConfig: providerConfig,
	}
}

func (g *localGenerator) Generate(ctx context.Context, req outbound.GenerateTextRequest) (string, error) {
	payloadBytes, err := json.Marshal(ollamaRequest{
		Model:  g.providerConfig.Model,
		Prompt: req.Prompt,
		System: req.SystemPrompt,
		Stream: false,
	})
	if err != nil {
		g.logger.Error(err, "Failed to marshal the request body")
		return "", err
	}

	apiURL := strings.TrimSuffix(g.providerConfig.ApiUrl, "/") + "/api/generate"
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

	var parsed ollamaResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		g.logger.Error(err, "Failed to unmarshal local model response")
		return "", err
	}

	return parsed.Response, nil
}
