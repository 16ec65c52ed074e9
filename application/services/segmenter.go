package services

import (
	"generate-lecture-service/application/ports/inbound"
	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/domain"
)

// boundaryLookbackDivisor bounds how far back from the hard cutoff the
// segmenter searches for a sentence boundary (last 10% of the chunk).
const boundaryLookbackDivisor = 10

type segmenter struct {
	logger outbound.LoggerPort
}

func NewSegmenter(logger outbound.LoggerPort) inbound.SegmenterPort {
	return &segmenter{
		logger: logger,
	}
}

func (s *segmenter) Segment(doc domain.Document, maxChunkChars int, overlapChars int) ([]domain.Chunk, error) {
	if maxChunkChars <= 0 || overlapChars <= 0 {
		return nil, &domain.InvalidConfigurationError{Reason: "max_chunk_chars and overlap_chars must be positive"}
	}
	if overlapChars >= maxChunkChars {
		return nil, &domain.InvalidConfigurationError{Reason: "overlap_chars must be smaller than max_chunk_chars"}
	}

	text := doc.Text
	n := len(text)

	if n <= maxChunkChars {
		return []domain.Chunk{{
			Text:        text,
			StartOffset: 0,
			EndOffset:   n,
		}}, nil
	}

	chunks := make([]domain.Chunk, 0, (n-overlapChars)/(maxChunkChars-overlapChars)+1)
	start := 0
	for seq := 0; ; seq++ {
		end := start + maxChunkChars
		last := end >= n
		if last {
			end = n
		} else {
			snapped := s.snapToBoundary(text, start, end)
			// keep the hard cut when snapping would stall the walk
			if snapped-overlapChars > start {
				end = snapped
			}
		}

		chunk := domain.Chunk{
			Text:          text[start:end],
			StartOffset:   start,
			EndOffset:     end,
			SequenceIndex: seq,
		}
		if seq > 0 {
			chunk.OverlapPrefixLen = overlapChars
		}
		if !last {
			chunk.OverlapSuffixLen = overlapChars
		}
		chunks = append(chunks, chunk)

		if last {
			break
		}
		start = end - overlapChars
	}

	s.logger.DebugWithFields("Document segmented", map[string]interface{}{
		"documentChars": n,
		"chunkCount":    len(chunks),
	})

	return chunks, nil
}

// snapToBoundary moves the cut back to just after the nearest sentence or
// paragraph boundary within the lookback window; returns the hard cutoff
// when no boundary exists there.
func (s *segmenter) snapToBoundary(text string, start int, end int) int {
	lookback := (end - start) / boundaryLookbackDivisor
	limit := end - lookback
	if limit < start {
		limit = start
	}
	for i := end - 1; i >= limit; i-- {
		switch text[i] {
		case '.', '!', '?', '\n':
			return i + 1
		}
	}
	return end
}
