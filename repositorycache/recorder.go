package repositorycache

import "context"

// Recorder receives cache events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Hit(ctx context.Context, entityType, operation string)
	Miss(ctx context.Context, entityType, operation string)
	Populate(ctx context.Context, entityType, operation string)
	Invalidate(ctx context.Context, entityType string, keys int)
	StoreError(ctx context.Context, entityType, operation string)
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) Hit(context.Context, string, string)        {}
func (NopRecorder) Miss(context.Context, string, string)       {}
func (NopRecorder) Populate(context.Context, string, string)   {}
func (NopRecorder) Invalidate(context.Context, string, int)    {}
func (NopRecorder) StoreError(context.Context, string, string) {}
