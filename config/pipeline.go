package config

import (
	"fmt"
	"os"
	"strconv"
)

type PipelineConfig struct {
	MaxChunkChars             int
	OverlapChars              int
	MaxRetryAttempts          int
	RetryBaseDelayMs          int
	ConcurrencyLimit          int
	StitchSimilarityThreshold float64
	WordsPerMinute            int
}

const (
	defaultMaxChunkChars    = 24000
	defaultOverlapChars     = 2000
	defaultMaxRetryAttempts = 3
	defaultRetryBaseDelayMs = 500
	defaultConcurrencyLimit = 4
	defaultStitchThreshold  = 0.8
	defaultWordsPerMinute   = 130
)

func GetPipelineConfig() (*PipelineConfig, error) {
	cfg := &PipelineConfig{
		MaxChunkChars:             defaultMaxChunkChars,
		OverlapChars:              defaultOverlapChars,
		MaxRetryAttempts:          defaultMaxRetryAttempts,
		RetryBaseDelayMs:          defaultRetryBaseDelayMs,
		ConcurrencyLimit:          defaultConcurrencyLimit,
		StitchSimilarityThreshold: defaultStitchThreshold,
		WordsPerMinute:            defaultWordsPerMinute,
	}

	intVars := map[string]*int{
		"MAX_CHUNK_CHARS":     &cfg.MaxChunkChars,
		"OVERLAP_CHARS":       &cfg.OverlapChars,
		"MAX_RETRY_ATTEMPTS":  &cfg.MaxRetryAttempts,
		"RETRY_BASE_DELAY_MS": &cfg.RetryBaseDelayMs,
		"CONCURRENCY_LIMIT":   &cfg.ConcurrencyLimit,
		"WORDS_PER_MINUTE":    &cfg.WordsPerMinute,
	}
	for name, target := range intVars {
		raw := os.Getenv(name)
		if raw == "" {
			continue
		}
		val, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		*target = val
	}

	if raw := os.Getenv("STITCH_SIMILARITY_THRESHOLD"); raw != "" {
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STITCH_SIMILARITY_THRESHOLD: %w", err)
		}
		cfg.StitchSimilarityThreshold = val
	}

	if cfg.MaxChunkChars <= 0 || cfg.OverlapChars <= 0 {
		return nil, fmt.Errorf("MAX_CHUNK_CHARS and OVERLAP_CHARS must be positive")
	}
	if cfg.OverlapChars >= cfg.MaxChunkChars {
		return nil, fmt.Errorf("OVERLAP_CHARS must be smaller than MAX_CHUNK_CHARS")
	}
	if cfg.MaxRetryAttempts <= 0 {
		return nil, fmt.Errorf("MAX_RETRY_ATTEMPTS must be positive")
	}
	if cfg.ConcurrencyLimit <= 0 {
		return nil, fmt.Errorf("CONCURRENCY_LIMIT must be positive")
	}

	return cfg, nil
}
