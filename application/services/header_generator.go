package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"generate-lecture-service/application/ports/inbound"
	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/domain"
)

// headerExcerptChars is how much of the document's opening the header prompt
// sees; titles and objectives come from the front matter anyway.
const headerExcerptChars = 2000

const headerSystemPrompt = "You are an expert educator. Output ONLY valid JSON, no other text."

type headerGenerator struct {
	logger     outbound.LoggerPort
	generator  outbound.TextGeneratorPort
	jsonRegexp *regexp.Regexp
}

func NewHeaderGenerator(logger outbound.LoggerPort, generator outbound.TextGeneratorPort) inbound.HeaderGeneratorPort {
	return &headerGenerator{
		logger:     logger,
		generator:  generator,
		jsonRegexp: regexp.MustCompile(`\{[\s\S]*\}`),
	}
}

type headerPayload struct {
	Title              string   `json:"title"`
	LearningObjectives []string `json:"learning_objectives"`
}

// Generate asks the provider for a lecture title and 3-5 learning objectives
// over the document's leading excerpt. A bad response gets one stricter
// retry; after that the deterministic fallback header is used. The header is
// never a reason to fail a run.
func (h *headerGenerator) Generate(ctx context.Context, doc domain.Document) domain.ScriptHeader {
	req := h.buildRequest(doc)

	for attempt := 0; attempt < 2; attempt++ {
		if ctx.Err() != nil {
			break
		}
		raw, err := h.generator.Generate(ctx, req)
		if err != nil {
			h.logger.Warn("Header generation failed, using fallback header")
			break
		}
		header, parseErr := h.parseHeader(raw)
		if parseErr == nil {
			return header
		}
		h.logger.WarnWithFields("Header output unparseable", map[string]interface{}{
			"attempt": attempt + 1,
			"cause":   parseErr.Error(),
		})
		req.Prompt += reformatInstruction
	}

	return fallbackHeader(doc)
}

func (h *headerGenerator) parseHeader(raw string) (domain.ScriptHeader, error) {
	content := strings.TrimSpace(raw)

	var payload headerPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		match := h.jsonRegexp.FindString(content)
		if match == "" {
			return domain.ScriptHeader{}, err
		}
		if err := json.Unmarshal([]byte(match), &payload); err != nil {
			return domain.ScriptHeader{}, err
		}
	}

	payload.Title = strings.TrimSpace(payload.Title)
	if payload.Title == "" {
		return domain.ScriptHeader{}, errEmptyTitle
	}

	objectives := make([]string, 0, len(payload.LearningObjectives))
	for _, objective := range payload.LearningObjectives {
		if trimmed := strings.TrimSpace(objective); trimmed != "" {
			objectives = append(objectives, trimmed)
		}
	}

	return domain.ScriptHeader{
		Title:              payload.Title,
		LearningObjectives: objectives,
	}, nil
}

func (h *headerGenerator) buildRequest(doc domain.Document) outbound.GenerateTextRequest {
	var builder strings.Builder

	builder.WriteString("Analyze this transcript and produce a lecture title and 3-5 clear learning objectives.\n")
	if doc.Style.GuidingPrompt != "" {
		builder.WriteString("Guiding instructions from the requester:\n")
		builder.WriteString(doc.Style.GuidingPrompt)
		builder.WriteString("\n")
	}
	if doc.Style.TargetLanguage != "" {
		builder.WriteString("Write them in ")
		builder.WriteString(doc.Style.TargetLanguage)
		builder.WriteString(".\n")
	}
	builder.WriteString("\nRespond with valid JSON in exactly this shape, no additional text:\n")
	builder.WriteString(`{"title": "string", "learning_objectives": ["string"]}`)
	builder.WriteString("\n\nTranscript excerpt:\n")
	builder.WriteString(leadingExcerpt(doc.Text, headerExcerptChars))

	return outbound.GenerateTextRequest{
		SystemPrompt: headerSystemPrompt,
		Prompt:       builder.String(),
	}
}

// fallbackHeader derives a usable header from the document itself when the
// provider never yields one.
func fallbackHeader(doc domain.Document) domain.ScriptHeader {
	title := "Lecture"
	for _, line := range strings.Split(doc.Text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			if idx := strings.IndexAny(trimmed, ".!?"); idx > 0 {
				trimmed = trimmed[:idx]
			}
			if len(trimmed) > 80 {
				trimmed = trimmed[:80]
			}
			title = trimmed
			break
		}
	}

	return domain.ScriptHeader{
		Title: title,
		LearningObjectives: []string{
			"Understand the key concepts covered in the source material",
			"Connect the main ideas into a coherent narrative",
			"Apply the material through examples and discussion",
		},
	}
}

func leadingExcerpt(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars]
}

var errEmptyTitle = &parseFieldError{field: "title"}

type parseFieldError struct {
	field string
}

func (e *parseFieldError) Error() string {
	return "missing or empty field: " + e.field
}
