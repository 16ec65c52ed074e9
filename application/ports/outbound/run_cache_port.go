package outbound

import (
	"context"
	"generate-lecture-service/domain"
)

// RunCachePort records per-run metadata after assembly.
type RunCachePort interface {
	Save(ctx context.Context, record domain.RunRecord) error
}
