package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"generate-lecture-service/application/ports/inbound"
	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/config"
	"generate-lecture-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerJSON = `{"title": "Test Lecture", "learning_objectives": ["Objective one"]}`

func pipelineConfigForTest() *config.PipelineConfig {
	return &config.PipelineConfig{
		MaxChunkChars:             5000,
		OverlapChars:              500,
		MaxRetryAttempts:          3,
		RetryBaseDelayMs:          1,
		ConcurrencyLimit:          2,
		StitchSimilarityThreshold: 0.8,
		WordsPerMinute:            130,
	}
}

func newPipelineForTest(t *testing.T, generator outbound.TextGeneratorPort,
	store outbound.ScriptStorePort, cache outbound.RunCachePort) inbound.LecturePipelinePort {
	t.Helper()
	cfg := pipelineConfigForTest()
	logger := nopLogger{}
	return NewLecturePipelineOrchestrator(
		logger,
		NewTextSanitizer(),
		NewSegmenter(logger),
		NewHeaderGenerator(logger, generator),
		NewChunkTransformer(logger, generator, newTestPool(t, cfg.ConcurrencyLimit), cfg.MaxRetryAttempts, time.Millisecond),
		NewTimelineAllocator(logger),
		NewCoherenceStitcher(logger, cfg.StitchSimilarityThreshold),
		NewScriptAssembler(),
		store,
		cache,
		cfg,
	)
}

// routes header prompts and chunk prompts to different canned answers
func routedGenerator(draftJSON string) *stubGenerator {
	return &stubGenerator{fn: func(_ int, req outbound.GenerateTextRequest) (string, error) {
		if strings.Contains(req.Prompt, "learning objectives") {
			return headerJSON, nil
		}
		return draftJSON, nil
	}}
}

func TestLecturePipeline_EndToEnd(t *testing.T) {
	draftJSON := `{"topics": [
		{"title": "Opening", "body": "We start at the beginning.", "weight": 1},
		{"title": "Depth", "body": "Then we go deeper.", "weight": 3}
	]}`
	store := &stubScriptStore{url: "https://bucket.s3.amazonaws.com/script.txt"}
	cache := &stubRunCache{}
	pipeline := newPipelineForTest(t, routedGenerator(draftJSON), store, cache)

	result, err := pipeline.Run(context.Background(), inbound.GenerateLectureParams{
		RunID:  "run-1",
		UserID: "user-1",
		Input:  "A transcript about something   interesting. It has two sentences.",
		Style:  domain.StyleConfig{TargetLanguage: "English", TotalDurationSeconds: 1200},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	require.Len(t, result.Script.Segments, 2)
	assert.Equal(t, "Test Lecture", result.Script.Header.Title)
	assert.Equal(t, 300.0, result.Script.Segments[0].Duration)
	assert.Equal(t, 900.0, result.Script.Segments[1].Duration)

	assert.Contains(t, result.Rendered, "Test Lecture\n")
	assert.Contains(t, result.Rendered, "- Objective one\n")
	assert.Contains(t, result.Rendered, "[00:00] Opening\n")
	assert.Contains(t, result.Rendered, "[05:00] Depth\n")

	assert.Equal(t, "https://bucket.s3.amazonaws.com/script.txt", result.ScriptURL)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "run-1", store.saved[0].RunID)
	require.Len(t, cache.records, 1)
	assert.Equal(t, 2, cache.records[0].SegmentCount)
	assert.Equal(t, "Test Lecture", cache.records[0].Title)
}

func TestLecturePipeline_TransformFailureAbortsWithoutScript(t *testing.T) {
	generator := &stubGenerator{fn: func(_ int, req outbound.GenerateTextRequest) (string, error) {
		if strings.Contains(req.Prompt, "learning objectives") {
			return headerJSON, nil
		}
		return "", &domain.TransientError{Cause: assert.AnError}
	}}
	store := &stubScriptStore{}
	pipeline := newPipelineForTest(t, generator, store, &stubRunCache{})

	result, err := pipeline.Run(context.Background(), inbound.GenerateLectureParams{
		RunID: "run-2",
		Input: "Doomed transcript.",
		Style: domain.StyleConfig{TotalDurationSeconds: 600},
	})

	var unavailable *domain.TransformUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Nil(t, result)
	assert.Empty(t, store.saved)
}

func TestLecturePipeline_RunsWithoutPersistence(t *testing.T) {
	draftJSON := `{"topics": [{"title": "Solo", "body": "All inline.", "weight": 1}]}`
	pipeline := newPipelineForTest(t, routedGenerator(draftJSON), nil, nil)

	result, err := pipeline.Run(context.Background(), inbound.GenerateLectureParams{
		RunID: "run-3",
		Input: "Standalone transcript.",
		Style: domain.StyleConfig{TotalDurationSeconds: 300},
	})
	require.NoError(t, err)
	assert.Empty(t, result.ScriptURL)
	assert.Contains(t, result.Rendered, "[00:00] Solo\n")
}

func TestLecturePipeline_StoreFailureDoesNotFailTheRun(t *testing.T) {
	draftJSON := `{"topics": [{"title": "Solo", "body": "All inline.", "weight": 1}]}`
	store := &stubScriptStore{err: assert.AnError}
	pipeline := newPipelineForTest(t, routedGenerator(draftJSON), store, &stubRunCache{})

	result, err := pipeline.Run(context.Background(), inbound.GenerateLectureParams{
		RunID: "run-4",
		Input: "Transcript.",
		Style: domain.StyleConfig{TotalDurationSeconds: 300},
	})
	require.NoError(t, err)
	assert.Empty(t, result.ScriptURL)
}
