package services

import (
	"math"

	"generate-lecture-service/application/ports/inbound"
	"generate-lecture-service/application/ports/outbound"
	"generate-lecture-service/domain"
)

type timelineAllocator struct {
	logger outbound.LoggerPort
}

func NewTimelineAllocator(logger outbound.LoggerPort) inbound.TimelineAllocatorPort {
	return &timelineAllocator{
		logger: logger,
	}
}

// Allocate flattens the per-chunk topic lists in chunk order and hands each
// topic a duration proportional to its weight. The cumulative start keeps
// sub-second precision; only DisplayStart is rounded, so repeated rounding
// never drifts the timeline.
func (a *timelineAllocator) Allocate(drafts []domain.SegmentDraft, totalDurationSeconds float64) []domain.TimedSegment {
	topicCount := 0
	sumWeights := 0.0
	for _, draft := range drafts {
		topicCount += len(draft.Topics)
		for _, topic := range draft.Topics {
			sumWeights += topic.Weight
		}
	}
	if topicCount == 0 {
		return []domain.TimedSegment{}
	}

	equalShare := sumWeights <= 0
	if equalShare {
		a.logger.Warn("All topic weights are zero, falling back to equal division")
	}

	segments := make([]domain.TimedSegment, 0, topicCount)
	cumulative := 0.0
	for _, draft := range drafts {
		for _, topic := range draft.Topics {
			var duration float64
			if equalShare {
				duration = totalDurationSeconds / float64(topicCount)
			} else {
				duration = totalDurationSeconds * topic.Weight / sumWeights
			}
			segments = append(segments, domain.TimedSegment{
				Title:        topic.Title,
				Body:         topic.Body,
				ChunkIndex:   draft.ChunkIndex,
				StartTime:    cumulative,
				Duration:     duration,
				DisplayStart: int(math.Round(cumulative)),
			})
			cumulative += duration
		}
	}

	return segments
}
