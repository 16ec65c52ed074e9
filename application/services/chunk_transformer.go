package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"generate-lecture-service/application/ports/inbound"
	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/domain"
)

// contextHintChars bounds the trailing excerpt of the previous chunk handed
// to the model as a continuity hint.
const contextHintChars = 400

const draftSystemPrompt = "You are an expert educator turning a transcript into a teaching script. Output ONLY valid JSON, no other text."

const reformatInstruction = "\n\nIMPORTANT: your previous answer was not parseable. Respond with NOTHING but the JSON object described above. No prose, no markdown fences."

type chunkTransformer struct {
	logger      outbound.LoggerPort
	generator   outbound.TextGeneratorPort
	workerPool  outbound.TaskDispatcher
	maxAttempts int
	baseDelay   time.Duration
	jsonRegexp  *regexp.Regexp
}

func NewChunkTransformer(logger outbound.LoggerPort, generator outbound.TextGeneratorPort,
	workerPool outbound.TaskDispatcher, maxAttempts int, baseDelay time.Duration) inbound.ChunkTransformerPort {
	return &chunkTransformer{
		logger:      logger,
		generator:   generator,
		workerPool:  workerPool,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		jsonRegexp:  regexp.MustCompile(`\{[\s\S]*\}`),
	}
}

// TransformAll fans the chunks out over the worker pool. Each transform is an
// isolated, restartable unit of work; results land in a fixed-size slice
// indexed by sequence index, so completion order never matters. The first
// failure cancels the remaining transforms and fails the whole run.
func (t *chunkTransformer) TransformAll(ctx context.Context, chunks []domain.Chunk, style domain.StyleConfig) ([]domain.SegmentDraft, error) {
	if len(chunks) == 0 {
		return []domain.SegmentDraft{}, nil
	}

	results := make([]domain.SegmentDraft, len(chunks))

	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for i := range chunks {
		chunk := chunks[i]
		hint := ""
		if i > 0 {
			hint = trailingExcerpt(chunks[i-1].Text, contextHintChars)
		}

		wg.Add(1)
		err := t.workerPool.Submit(func() {
			defer wg.Done()
			if newCtx.Err() != nil {
				return
			}
			draft, err := t.transform(newCtx, chunk, hint, style)
			if err != nil {
				// cancellation of a sibling is not this chunk's failure
				if !errors.Is(err, domain.ErrRunCancelled) {
					fail(err)
				}
				return
			}
			if newCtx.Err() != nil {
				// run already failed or was cancelled; discard the late result
				return
			}
			// single writer per slot: this goroutine owns SequenceIndex
			results[chunk.SequenceIndex] = draft
		})
		if err != nil {
			wg.Done()
			fail(err)
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if ctx.Err() != nil {
		return nil, domain.ErrRunCancelled
	}

	return results, nil
}

func (t *chunkTransformer) transform(ctx context.Context, chunk domain.Chunk, contextHint string, style domain.StyleConfig) (domain.SegmentDraft, error) {
	req := t.buildRequest(chunk, contextHint, style)

	raw, err := t.generateWithRetry(ctx, req, chunk.SequenceIndex)
	if err != nil {
		return domain.SegmentDraft{}, err
	}

	draft, parseErr := t.parseDraft(raw, chunk.SequenceIndex)
	if parseErr == nil {
		return draft, nil
	}

	t.logger.WarnWithFields("Model output unparseable, retrying with reformat instruction", map[string]interface{}{
		"chunk": chunk.SequenceIndex,
		"cause": parseErr.Error(),
	})

	req.Prompt += reformatInstruction
	raw, err = t.generateWithRetry(ctx, req, chunk.SequenceIndex)
	if err != nil {
		return domain.SegmentDraft{}, err
	}

	draft, parseErr = t.parseDraft(raw, chunk.SequenceIndex)
	if parseErr != nil {
		return domain.SegmentDraft{}, &domain.MalformedSegmentError{
			ChunkIndex: chunk.SequenceIndex,
			Cause:      parseErr,
		}
	}

	return draft, nil
}

// generateWithRetry retries transient provider failures with exponential
// backoff up to the configured attempt budget. Retry state lives entirely in
// this call frame; nothing leaks across calls.
func (t *chunkTransformer) generateWithRetry(ctx context.Context, req outbound.GenerateTextRequest, chunkIndex int) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= t.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return "", domain.ErrRunCancelled
		}

		raw, err := t.generator.Generate(ctx, req)
		if err == nil {
			return raw, nil
		}
		if ctx.Err() != nil {
			return "", domain.ErrRunCancelled
		}
		lastErr = err

		if !domain.IsTransient(err) {
			return "", &domain.TransformUnavailableError{ChunkIndex: chunkIndex, Attempts: attempt, Cause: err}
		}
		if attempt < t.maxAttempts {
			delay := t.baseDelay << (attempt - 1)
			t.logger.WarnWithFields("Transient provider failure, backing off", map[string]interface{}{
				"chunk":   chunkIndex,
				"attempt": attempt,
				"delay":   delay.String(),
			})
			if err := sleepCtx(ctx, delay); err != nil {
				return "", domain.ErrRunCancelled
			}
		}
	}

	return "", &domain.TransformUnavailableError{ChunkIndex: chunkIndex, Attempts: t.maxAttempts, Cause: lastErr}
}

type draftPayload struct {
	Topics []domain.Topic `json:"topics"`
}

func (t *chunkTransformer) parseDraft(raw string, chunkIndex int) (domain.SegmentDraft, error) {
	content := strings.TrimSpace(raw)

	var payload draftPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		// the model sometimes wraps the JSON in prose or fences
		match := t.jsonRegexp.FindString(content)
		if match == "" {
			return domain.SegmentDraft{}, fmt.Errorf("no JSON object in model output")
		}
		if err := json.Unmarshal([]byte(match), &payload); err != nil {
			return domain.SegmentDraft{}, fmt.Errorf("failed to parse extracted JSON: %w", err)
		}
	}

	if len(payload.Topics) == 0 {
		return domain.SegmentDraft{}, fmt.Errorf("draft has no topics")
	}
	for i, topic := range payload.Topics {
		if strings.TrimSpace(topic.Title) == "" {
			return domain.SegmentDraft{}, fmt.Errorf("topic %d has an empty title", i)
		}
		if topic.Weight < 0 {
			return domain.SegmentDraft{}, fmt.Errorf("topic %d has a negative weight", i)
		}
	}

	return domain.SegmentDraft{
		ChunkIndex: chunkIndex,
		Topics:     payload.Topics,
	}, nil
}

func (t *chunkTransformer) buildRequest(chunk domain.Chunk, contextHint string, style domain.StyleConfig) outbound.GenerateTextRequest {
	var builder strings.Builder

	builder.WriteString("Transform this transcript excerpt into an ordered list of teaching topics.\n\n")

	if style.GuidingPrompt != "" {
		builder.WriteString("Guiding instructions from the requester:\n")
		builder.WriteString(style.GuidingPrompt)
		builder.WriteString("\n\n")
	}

	fmt.Fprintf(&builder, "Target language: %s\n", style.TargetLanguage)
	fmt.Fprintf(&builder, "Formality: %s\n", style.Formality)
	fmt.Fprintf(&builder, "The full lecture runs %d minutes; this excerpt covers only part of it.\n", style.TotalDurationSeconds/60)
	if style.IncludeInteractive {
		builder.WriteString("Include questions or short exercises inside topic bodies where they fit.\n")
	}

	if contextHint != "" {
		builder.WriteString("\nThe previous section of the lecture ended with:\n")
		builder.WriteString(contextHint)
		builder.WriteString("\nContinue the narrative from there without repeating it.\n")
	}

	builder.WriteString("\nRespond with valid JSON in exactly this shape, no additional text:\n")
	builder.WriteString(`{"topics": [{"title": "string", "body": "string", "weight": number}]}`)
	builder.WriteString("\nWeight is a positive relative share of speaking time, not a duration.\n")

	builder.WriteString("\nTranscript excerpt:\n")
	builder.WriteString(chunk.Text)

	return outbound.GenerateTextRequest{
		SystemPrompt: draftSystemPrompt,
		Prompt:       builder.String(),
	}
}

func trailingExcerpt(text string, maxChars int) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= maxChars {
		return trimmed
	}
	excerpt := trimmed[len(trimmed)-maxChars:]
	// start at a word boundary
	if idx := strings.IndexAny(excerpt, " \n"); idx >= 0 && idx < len(excerpt)-1 {
		excerpt = excerpt[idx+1:]
	}
	return excerpt
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
