package inbound

import "generate-lecture-service/domain"

// SegmenterPort splits a document into overlapping chunks sized to the
// character budget, preserving sentence boundaries where possible.
type SegmenterPort interface {
	Segment(doc domain.Document, maxChunkChars int, overlapChars int) ([]domain.Chunk, error)
}
