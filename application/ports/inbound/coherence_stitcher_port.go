package inbound

import "generate-lecture-service/domain"

// CoherenceStitcherPort merges near-duplicate topics at chunk seams and
// bridges bodies that end mid-thought. Never reorders.
type CoherenceStitcherPort interface {
	Stitch(segments []domain.TimedSegment) []domain.TimedSegment
}
