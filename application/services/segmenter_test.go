package services

import (
	"strings"
	"testing"

	"generate-lecture-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmenter_ThreeChunkScenario(t *testing.T) {
	seg := NewSegmenter(nopLogger{})
	doc := domain.Document{Text: strings.Repeat("a", 12000)}

	chunks, err := seg.Segment(doc, 5000, 500)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, 0, chunks[0].StartOffset)
	assert.Equal(t, 5000, chunks[0].EndOffset)
	assert.Equal(t, 4500, chunks[1].StartOffset)
	assert.Equal(t, 9500, chunks[1].EndOffset)
	assert.Equal(t, 9000, chunks[2].StartOffset)
	assert.Equal(t, 12000, chunks[2].EndOffset)

	assert.Equal(t, 0, chunks[0].OverlapPrefixLen)
	assert.Equal(t, 500, chunks[0].OverlapSuffixLen)
	assert.Equal(t, 500, chunks[1].OverlapPrefixLen)
	assert.Equal(t, 500, chunks[1].OverlapSuffixLen)
	assert.Equal(t, 500, chunks[2].OverlapPrefixLen)
	assert.Equal(t, 0, chunks[2].OverlapSuffixLen)
}

func TestSegmenter_ShortDocumentYieldsSingleChunk(t *testing.T) {
	seg := NewSegmenter(nopLogger{})
	doc := domain.Document{Text: "A short document. Nothing to split here."}

	chunks, err := seg.Segment(doc, 5000, 500)
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, doc.Text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].OverlapPrefixLen)
	assert.Equal(t, 0, chunks[0].OverlapSuffixLen)
	assert.Equal(t, 0, chunks[0].SequenceIndex)
}

func TestSegmenter_InvalidConfiguration(t *testing.T) {
	seg := NewSegmenter(nopLogger{})
	doc := domain.Document{Text: "whatever"}

	cases := []struct {
		name    string
		max     int
		overlap int
	}{
		{"overlap equals max", 1000, 1000},
		{"overlap exceeds max", 1000, 2000},
		{"zero max", 0, 100},
		{"zero overlap", 1000, 0},
		{"negative overlap", 1000, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := seg.Segment(doc, tc.max, tc.overlap)
			var invalidCfg *domain.InvalidConfigurationError
			require.ErrorAs(t, err, &invalidCfg)
		})
	}
}

func TestSegmenter_CoverageWithoutGaps(t *testing.T) {
	seg := NewSegmenter(nopLogger{})

	sentence := "The quick brown fox jumps over the lazy dog. "
	doc := domain.Document{Text: strings.Repeat(sentence, 700)}

	configs := []struct {
		max     int
		overlap int
	}{
		{5000, 500},
		{3000, 300},
		{1000, 100},
		{2500, 1200},
	}

	for _, cfg := range configs {
		chunks, err := seg.Segment(doc, cfg.max, cfg.overlap)
		require.NoError(t, err)
		require.NotEmpty(t, chunks)

		assert.Equal(t, 0, chunks[0].StartOffset)
		assert.Equal(t, len(doc.Text), chunks[len(chunks)-1].EndOffset)

		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.SequenceIndex)
			assert.Greater(t, chunk.EndOffset, chunk.StartOffset)
			assert.LessOrEqual(t, chunk.EndOffset-chunk.StartOffset, cfg.max)
			assert.Equal(t, doc.Text[chunk.StartOffset:chunk.EndOffset], chunk.Text)
			if i > 0 {
				// each chunk starts inside its predecessor: no gaps
				assert.Equal(t, chunks[i-1].EndOffset-cfg.overlap, chunk.StartOffset)
			}
		}
	}
}

func TestSegmenter_SnapsToSentenceBoundary(t *testing.T) {
	seg := NewSegmenter(nopLogger{})

	// one sentence ending inside the lookback window of the first cut
	text := strings.Repeat("b", 4800) + ". " + strings.Repeat("c", 7000)
	doc := domain.Document{Text: text}

	chunks, err := seg.Segment(doc, 5000, 500)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	assert.Equal(t, 4801, chunks[0].EndOffset)
	assert.True(t, strings.HasSuffix(chunks[0].Text, "."))
}
