package inbound

import (
	"context"
	"generate-lecture-service/domain"
)

// HeaderGeneratorPort derives the lecture title and learning objectives from
// the document's leading excerpt. Falls back to a deterministic header when
// the provider output stays unusable, so it never fails the run.
type HeaderGeneratorPort interface {
	Generate(ctx context.Context, doc domain.Document) domain.ScriptHeader
}
