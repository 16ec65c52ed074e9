package services

import (
	"regexp"
	"strings"

	"generate-lecture-service/application/ports/inbound"
	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/domain"
)

// bridgeSentence is spliced onto a body that ends mid-thought so the spoken
// script does not cut off abruptly at a chunk seam.
const bridgeSentence = " Let's carry that thought into the next section."

type coherenceStitcher struct {
	logger              outbound.LoggerPort
	similarityThreshold float64
	tokenRegexp         *regexp.Regexp
}

func NewCoherenceStitcher(logger outbound.LoggerPort, similarityThreshold float64) inbound.CoherenceStitcherPort {
	return &coherenceStitcher{
		logger:              logger,
		similarityThreshold: similarityThreshold,
		tokenRegexp:         regexp.MustCompile(`[\p{L}\p{N}]+`),
	}
}

// Stitch merges adjacent near-duplicate topics generated twice across a
// chunk boundary (once at the tail of chunk n, once at the head of chunk
// n+1). The merged segment keeps the richer body and the earlier start and
// absorbs both durations, so the surrounding timeline stays gapless. Topics
// are never reordered.
func (s *coherenceStitcher) Stitch(segments []domain.TimedSegment) []domain.TimedSegment {
	if len(segments) == 0 {
		return segments
	}

	out := make([]domain.TimedSegment, 0, len(segments))
	current := segments[0]
	for _, next := range segments[1:] {
		if current.ChunkIndex != next.ChunkIndex && s.nearDuplicate(current, next) {
			s.logger.DebugWithFields("Merging near-duplicate topics at chunk seam", map[string]interface{}{
				"title":      current.Title,
				"chunkLeft":  current.ChunkIndex,
				"chunkRight": next.ChunkIndex,
			})
			current = s.merge(current, next)
			continue
		}
		out = append(out, current)
		current = next
	}
	out = append(out, current)

	for i := range out[:len(out)-1] {
		if endsMidThought(out[i].Body) {
			out[i].Body += bridgeSentence
		}
	}

	return out
}

func (s *coherenceStitcher) nearDuplicate(left domain.TimedSegment, right domain.TimedSegment) bool {
	return s.similarity(left.Title+" "+left.Body, right.Title+" "+right.Body) >= s.similarityThreshold
}

// similarity is the normalized token overlap of the two texts: shared
// distinct tokens over the smaller distinct-token count. The threshold it is
// compared against is a tunable, not a constant of the algorithm.
func (s *coherenceStitcher) similarity(left string, right string) float64 {
	leftTokens := s.tokenSet(left)
	rightTokens := s.tokenSet(right)
	if len(leftTokens) == 0 || len(rightTokens) == 0 {
		return 0
	}

	smaller := leftTokens
	larger := rightTokens
	if len(rightTokens) < len(leftTokens) {
		smaller = rightTokens
		larger = leftTokens
	}

	shared := 0
	for token := range smaller {
		if _, ok := larger[token]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(smaller))
}

func (s *coherenceStitcher) tokenSet(text string) map[string]struct{} {
	tokens := s.tokenRegexp.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

func (s *coherenceStitcher) merge(left domain.TimedSegment, right domain.TimedSegment) domain.TimedSegment {
	merged := left
	if len(right.Body) > len(left.Body) {
		merged.Body = right.Body
	}
	merged.Duration = left.Duration + right.Duration
	return merged
}

func endsMidThought(body string) bool {
	trimmed := strings.TrimRight(body, " \n\t\"')")
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?', ':', ';':
		return false
	}
	return true
}
