package outbound

import "context"

type StoreScriptRequest struct {
	RunID    string
	UserID   string
	Rendered string
}

// ScriptStorePort persists the rendered script and returns its public URL.
type ScriptStorePort interface {
	Save(ctx context.Context, req StoreScriptRequest) (string, error)
}
