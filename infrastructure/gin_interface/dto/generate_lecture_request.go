package dto

type GenerateLectureRequest struct {
	Input            string `json:"input" binding:"required"`
	DurationMinutes  int    `json:"duration_minutes" binding:"required,gt=0"`
	TargetLanguage   string `json:"target_language"`
	Formality        string `json:"formality"`
	IncludeExercises bool   `json:"include_exercises"`
	GuidingPrompt    string `json:"guiding_prompt"`
}

type GenerateLectureResponse struct {
	RunID           string `json:"run_id"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
	SegmentCount    int    `json:"segment_count"`
	Script          string `json:"script"`
	ScriptURL       string `json:"script_url,omitempty"`
}
