package services

import (
	"context"
	"math"

	"generate-lecture-service/application/ports/inbound"
	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/config"
	"generate-lecture-service/domain"
)

// largeDeviationThreshold is the word-count deviation past which the result
// is logged as an error rather than a warning. Never fatal either way.
const largeDeviationThreshold = 0.20

const wordCountTolerance = 0.05

type lecturePipelineOrchestrator struct {
	logger      outbound.LoggerPort
	sanitizer   *TextSanitizer
	segmenter   inbound.SegmenterPort
	headerGen   inbound.HeaderGeneratorPort
	transformer inbound.ChunkTransformerPort
	allocator   inbound.TimelineAllocatorPort
	stitcher    inbound.CoherenceStitcherPort
	assembler   inbound.ScriptAssemblerPort
	scriptStore outbound.ScriptStorePort
	runCache    outbound.RunCachePort
	cfg         *config.PipelineConfig
}

func NewLecturePipelineOrchestrator(
	logger outbound.LoggerPort,
	sanitizer *TextSanitizer,
	segmenter inbound.SegmenterPort,
	headerGen inbound.HeaderGeneratorPort,
	transformer inbound.ChunkTransformerPort,
	allocator inbound.TimelineAllocatorPort,
	stitcher inbound.CoherenceStitcherPort,
	assembler inbound.ScriptAssemblerPort,
	scriptStore outbound.ScriptStorePort,
	runCache outbound.RunCachePort,
	cfg *config.PipelineConfig) inbound.LecturePipelinePort {
	return &lecturePipelineOrchestrator{
		logger:      logger,
		sanitizer:   sanitizer,
		segmenter:   segmenter,
		headerGen:   headerGen,
		transformer: transformer,
		allocator:   allocator,
		stitcher:    stitcher,
		assembler:   assembler,
		scriptStore: scriptStore,
		runCache:    runCache,
		cfg:         cfg,
	}
}

// Run drives the whole pipeline for one request: sanitize → segment →
// transform (concurrent) → allocate → stitch → assemble → persist. Any
// stage failure aborts the run; no partial script is ever returned.
func (o *lecturePipelineOrchestrator) Run(ctx context.Context, params inbound.GenerateLectureParams) (*inbound.LectureResult, error) {
	cleaned := o.sanitizer.Clean(params.Input)
	doc := domain.Document{
		Text:      cleaned,
		WordCount: o.sanitizer.CountWords(cleaned),
		Style:     params.Style,
	}

	o.logger.InfoWithFields("Starting lecture generation", map[string]interface{}{
		"runID":           params.RunID,
		"inputWords":      doc.WordCount,
		"durationSeconds": params.Style.TotalDurationSeconds,
	})

	chunks, err := o.segmenter.Segment(doc, o.cfg.MaxChunkChars, o.cfg.OverlapChars)
	if err != nil {
		return nil, err
	}

	header := o.headerGen.Generate(ctx, doc)

	drafts, err := o.transformer.TransformAll(ctx, chunks, params.Style)
	if err != nil {
		return nil, err
	}

	timed := o.allocator.Allocate(drafts, float64(params.Style.TotalDurationSeconds))
	stitched := o.stitcher.Stitch(timed)

	script := &domain.Script{
		Header:   header,
		Segments: stitched,
	}
	rendered := o.assembler.Assemble(*script)

	o.validateWordCount(params.RunID, rendered, params.Style.TotalDurationSeconds)

	scriptURL := o.persist(ctx, params, script, rendered)

	o.logger.InfoWithFields("Lecture generation complete", map[string]interface{}{
		"runID":    params.RunID,
		"segments": len(stitched),
		"title":    header.Title,
	})

	return &inbound.LectureResult{
		Script:    script,
		Rendered:  rendered,
		ScriptURL: scriptURL,
	}, nil
}

// validateWordCount checks the script against the speaking-rate target.
// Deviations are logged, never fatal: a slightly short script is still a
// script.
func (o *lecturePipelineOrchestrator) validateWordCount(runID string, rendered string, totalDurationSeconds int) {
	targetWords := o.cfg.WordsPerMinute * totalDurationSeconds / 60
	if targetWords == 0 {
		return
	}
	totalWords := o.sanitizer.CountWords(rendered)
	deviation := math.Abs(float64(totalWords-targetWords)) / float64(targetWords)

	fields := map[string]interface{}{
		"runID":       runID,
		"totalWords":  totalWords,
		"targetWords": targetWords,
		"deviation":   deviation,
	}
	switch {
	case deviation > largeDeviationThreshold:
		o.logger.ErrorWithFields(nil, "Word count significantly outside target range", fields)
	case deviation > wordCountTolerance:
		o.logger.WarnWithFields("Word count slightly outside target range", fields)
	}
}

// persist stores the rendered script and the run record. Storage failures
// are logged and swallowed: the caller already has the script in hand.
func (o *lecturePipelineOrchestrator) persist(ctx context.Context, params inbound.GenerateLectureParams, script *domain.Script, rendered string) string {
	if o.scriptStore == nil {
		return ""
	}

	scriptURL, err := o.scriptStore.Save(ctx, outbound.StoreScriptRequest{
		RunID:    params.RunID,
		UserID:   params.UserID,
		Rendered: rendered,
	})
	if err != nil {
		o.logger.ErrorWithFields(err, "Failed to store rendered script", map[string]interface{}{
			"runID": params.RunID,
		})
		return ""
	}

	if o.runCache != nil {
		err = o.runCache.Save(ctx, domain.RunRecord{
			RunID:           params.RunID,
			UserID:          params.UserID,
			Title:           script.Header.Title,
			DurationSeconds: params.Style.TotalDurationSeconds,
			SegmentCount:    len(script.Segments),
		})
		if err != nil {
			o.logger.ErrorWithFields(err, "Failed to cache run record", map[string]interface{}{
				"runID": params.RunID,
			})
		}
	}

	return scriptURL
}
