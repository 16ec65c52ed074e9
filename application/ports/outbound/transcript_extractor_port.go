package outbound

import "io"

// TranscriptExtractorPort turns an uploaded document into a single plain-text
// blob with paragraph breaks preserved as newlines.
type TranscriptExtractorPort interface {
	Extract(r io.ReaderAt, size int64) (string, error)
}
