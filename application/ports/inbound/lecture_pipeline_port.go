package inbound

import (
	"context"
	"generate-lecture-service/domain"
)

type GenerateLectureParams struct {
	RunID  string
	UserID string
	Input  string
	Style  domain.StyleConfig
}

type LectureResult struct {
	Script    *domain.Script
	Rendered  string
	ScriptURL string
}

// LecturePipelinePort runs the full chunking-and-reassembly pipeline for one
// request.
type LecturePipelinePort interface {
	Run(ctx context.Context, params GenerateLectureParams) (*LectureResult, error)
}
