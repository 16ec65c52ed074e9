package inbound

import (
	"context"
	"generate-lecture-service/domain"
)

// ChunkTransformerPort turns every chunk into a SegmentDraft via the external
// generation capability. Transforms may run concurrently but the returned
// slice is always in sequence-index order.
type ChunkTransformerPort interface {
	TransformAll(ctx context.Context, chunks []domain.Chunk, style domain.StyleConfig) ([]domain.SegmentDraft, error)
}
