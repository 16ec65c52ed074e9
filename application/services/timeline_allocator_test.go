package services

import (
	"math"
	"testing"

	"generate-lecture-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineAllocator_ProportionalScenario(t *testing.T) {
	allocator := NewTimelineAllocator(nopLogger{})

	drafts := []domain.SegmentDraft{
		{ChunkIndex: 0, Topics: []domain.Topic{{Title: "Intro", Body: "a", Weight: 1}}},
		{ChunkIndex: 1, Topics: []domain.Topic{{Title: "Core", Body: "b", Weight: 2}}},
		{ChunkIndex: 2, Topics: []domain.Topic{{Title: "Wrap", Body: "c", Weight: 1}}},
	}

	segments := allocator.Allocate(drafts, 3600)
	require.Len(t, segments, 3)

	assert.Equal(t, 900.0, segments[0].Duration)
	assert.Equal(t, 1800.0, segments[1].Duration)
	assert.Equal(t, 900.0, segments[2].Duration)

	assert.Equal(t, 0, segments[0].DisplayStart)
	assert.Equal(t, 900, segments[1].DisplayStart)
	assert.Equal(t, 2700, segments[2].DisplayStart)
}

func TestTimelineAllocator_ZeroWeightsFallBackToEqualDivision(t *testing.T) {
	allocator := NewTimelineAllocator(nopLogger{})

	drafts := []domain.SegmentDraft{
		{ChunkIndex: 0, Topics: []domain.Topic{
			{Title: "One", Weight: 0},
			{Title: "Two", Weight: 0},
			{Title: "Three", Weight: 0},
			{Title: "Four", Weight: 0},
		}},
	}

	segments := allocator.Allocate(drafts, 1200)
	require.Len(t, segments, 4)
	for _, segment := range segments {
		assert.Equal(t, 300.0, segment.Duration)
	}
	assert.Equal(t, 900, segments[3].DisplayStart)
}

func TestTimelineAllocator_DurationsSumAndMonotonicStarts(t *testing.T) {
	allocator := NewTimelineAllocator(nopLogger{})

	weights := []float64{0.7, 3.1, 1.9, 0.3, 5.5, 2.2, 0.9}
	topics := make([]domain.Topic, len(weights))
	for i, w := range weights {
		topics[i] = domain.Topic{Title: "T", Weight: w}
	}
	drafts := []domain.SegmentDraft{{ChunkIndex: 0, Topics: topics}}

	const total = 1800.0
	segments := allocator.Allocate(drafts, total)
	require.Len(t, segments, len(weights))

	sum := 0.0
	prevEnd := 0.0
	prevDisplay := -1
	for _, segment := range segments {
		sum += segment.Duration
		assert.InDelta(t, prevEnd, segment.StartTime, 1e-9)
		assert.GreaterOrEqual(t, segment.DisplayStart, prevDisplay)
		prevEnd = segment.StartTime + segment.Duration
		prevDisplay = segment.DisplayStart
	}
	assert.InDelta(t, total, sum, 1.0)
}

func TestTimelineAllocator_RoundingDoesNotDrift(t *testing.T) {
	allocator := NewTimelineAllocator(nopLogger{})

	// 100 equal topics of 7.3s each; naive per-topic rounding would drift
	topics := make([]domain.Topic, 100)
	for i := range topics {
		topics[i] = domain.Topic{Title: "T", Weight: 1}
	}
	drafts := []domain.SegmentDraft{{ChunkIndex: 0, Topics: topics}}

	segments := allocator.Allocate(drafts, 730)
	require.Len(t, segments, 100)

	last := segments[99]
	assert.Equal(t, int(math.Round(99*7.3)), last.DisplayStart)
	assert.InDelta(t, 730.0, last.StartTime+last.Duration, 1e-6)
}

func TestTimelineAllocator_FlattensInChunkOrder(t *testing.T) {
	allocator := NewTimelineAllocator(nopLogger{})

	drafts := []domain.SegmentDraft{
		{ChunkIndex: 0, Topics: []domain.Topic{{Title: "A1", Weight: 1}, {Title: "A2", Weight: 1}}},
		{ChunkIndex: 1, Topics: []domain.Topic{{Title: "B1", Weight: 1}}},
	}

	segments := allocator.Allocate(drafts, 300)
	require.Len(t, segments, 3)
	assert.Equal(t, []string{"A1", "A2", "B1"}, []string{segments[0].Title, segments[1].Title, segments[2].Title})
	assert.Equal(t, []int{0, 0, 1}, []int{segments[0].ChunkIndex, segments[1].ChunkIndex, segments[2].ChunkIndex})
}

func TestTimelineAllocator_EmptyDrafts(t *testing.T) {
	allocator := NewTimelineAllocator(nopLogger{})
	segments := allocator.Allocate(nil, 3600)
	assert.Empty(t, segments)
}
