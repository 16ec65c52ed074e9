package domain

// StyleConfig carries the caller-provided generation directives that every
// provider prompt is built from.
type StyleConfig struct {
	TargetLanguage       string
	Formality            string
	TotalDurationSeconds int
	IncludeInteractive   bool
	GuidingPrompt        string
}

// Document is the full ingested input text. Immutable once ingestion completes.
type Document struct {
	Text      string
	WordCount int
	Style     StyleConfig
}

// Chunk is a contiguous slice of the Document's text. Offsets index into
// Document.Text; consecutive chunks share the configured overlap window.
type Chunk struct {
	Text             string
	StartOffset      int
	EndOffset        int
	OverlapPrefixLen int
	OverlapSuffixLen int
	SequenceIndex    int
}

// Topic is one teaching unit inside a SegmentDraft. Weight is a relative
// time share, not an absolute duration.
type Topic struct {
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Weight float64 `json:"weight"`
}

// SegmentDraft is the transformer's structured output for one chunk.
type SegmentDraft struct {
	ChunkIndex int
	Topics     []Topic
}

// TimedSegment is a draft topic enriched with its place on the script
// timeline. StartTime and Duration keep sub-second precision; DisplayStart
// is the whole-second value rendered in the output.
type TimedSegment struct {
	Title        string
	Body         string
	ChunkIndex   int
	StartTime    float64
	Duration     float64
	DisplayStart int
}

// ScriptHeader holds the lecture title and learning objectives that lead
// the rendered script.
type ScriptHeader struct {
	Title              string
	LearningObjectives []string
}

// Script is the final ordered, time-marked output of one pipeline run.
// Built once per generation request, immutable after assembly.
type Script struct {
	Header   ScriptHeader
	Segments []TimedSegment
}

// RunRecord is the per-run metadata persisted after a successful assembly.
type RunRecord struct {
	RunID           string
	UserID          string
	Title           string
	DurationSeconds int
	SegmentCount    int
}
