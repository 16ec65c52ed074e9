package inbound

import "generate-lecture-service/domain"

// TimelineAllocatorPort assigns monotonically increasing start times to the
// flattened topic list, proportional to topic weight.
type TimelineAllocatorPort interface {
	Allocate(drafts []domain.SegmentDraft, totalDurationSeconds float64) []domain.TimedSegment
}
