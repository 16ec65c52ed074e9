package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/config"
	"generate-lecture-service/domain"
	"github.com/donovanhide/eventsource"
)

const doneSignal = "[DONE]"

type chatRequest struct {
	Stream   bool          `json:"stream"`
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatChunkBody struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// openAIGenerator speaks the OpenAI-compatible chat completions protocol.
// This also covers Gemini's OpenAI-compatible endpoint and most self-hosted
// gateways. With Stream enabled the SSE deltas are accumulated into the
// final completion text.
type openAIGenerator struct {
	logger         outbound.LoggerPort
	fetcher        ContentFetcher
	providerConfig *config.ProviderConfig
}

func NewOpenAIGenerator(logger outbound.LoggerPort, fetcher ContentFetcher, providerConfig *config.ProviderConfig) outbound.TextGeneratorPort {
	return &openAIGenerator{
		logger:         logger,
		fetcher:        fetcher,
		providerConfig: providerConfig,
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, req outbound.GenerateTextRequest) (string, error) {
	httpReq, err := g.createRequest(ctx, req, g.providerConfig.Stream)
	if err != nil {
		return "", err
	}

	if g.providerConfig.Stream {
		return g.generateStreaming(ctx, httpReq)
	}

	payload, err := g.fetcher.FetchContent(httpReq)
	if err != nil {
		return "", err
	}

	var body chatResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		g.logger.Error(err, "Failed to unmarshal chat completion response")
		return "", err
	}
	if len(body.Choices) == 0 {
		return "", fmt.Errorf("chat completion response has no choices")
	}

	return body.Choices[0].Message.Content, nil
}

func (g *openAIGenerator) generateStreaming(ctx context.Context, httpReq *http.Request) (string, error) {
	stream, err := eventsource.SubscribeWithRequest("", httpReq)
	if err != nil {
		g.logger.Error(err, "Failed to subscribe to completion stream")
		return "", &domain.TransientError{Cause: err}
	}

	var builder strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev := <-stream.Events:
			if ev.Data() == doneSignal {
				return builder.String(), nil
			}
			delta, err := extractDelta(ev)
			if err != nil {
				g.logger.Error(err, "Failed to unmarshal stream event")
				return "", err
			}
			builder.WriteString(delta)
		case err := <-stream.Errors:
			if err == io.EOF {
				return builder.String(), nil
			}
			g.logger.Error(err, "Error occurred during streaming")
			return "", &domain.TransientError{Cause: err}
		}
	}
}

func extractDelta(event eventsource.Event) (string, error) {
	var chunkBody chatChunkBody
	if err := json.Unmarshal([]byte(event.Data()), &chunkBody); err != nil {
		return "", err
	}
	if len(chunkBody.Choices) == 0 {
		return "", nil
	}
	return chunkBody.Choices[0].Delta.Content, nil
}

func (g *openAIGenerator) createRequest(ctx context.Context, req outbound.GenerateTextRequest, stream bool) (*http.Request, error) {
	messages := make([]chatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	payloadBytes, err := json.Marshal(chatRequest{
		Stream:   stream,
		Model:    g.providerConfig.Model,
		Messages: messages,
	})
	if err != nil {
		g.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.providerConfig.ApiUrl, bytes.NewBuffer(payloadBytes))
	if err != nil {
		g.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+g.providerConfig.ApiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	return httpReq, nil
}
