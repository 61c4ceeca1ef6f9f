package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
)

// QueryLogHook logs every statement bun executes. Successful statements are
// logged at debug level, failures at warn.
type QueryLogHook struct {
	logger logrus.FieldLogger
}

var _ bun.QueryHook = (*QueryLogHook)(nil)

// NewQueryLogHook returns a hook writing to logger, or to the standard logrus
// logger when logger is nil.
func NewQueryLogHook(logger logrus.FieldLogger) *QueryLogHook {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &QueryLogHook{logger: logger}
}

func (h *QueryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryLogHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	entry := h.logger.WithFields(logrus.Fields{
		"operation": event.Operation(),
		"duration":  time.Since(event.StartTime).String(),
		"query":     event.Query,
	})

	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		entry.WithError(event.Err).Warn("sql statement failed")
		return
	}
	entry.Debug("sql statement executed")
}
