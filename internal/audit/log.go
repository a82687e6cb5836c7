// Package audit exposes the write-once, read-many history trail.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/store"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// MaxQueryLimit caps a single query as a backpressure guard; it is not a
// pagination mechanism.
const MaxQueryLimit = 100

// Log appends and queries history entries. There is deliberately no
// update or delete: entries leave the store only when their ticket is
// cascade-deleted.
type Log struct {
	store  store.Store
	logger *zap.Logger
}

// NewLog constructs the audit log.
func NewLog(st store.Store, logger *zap.Logger) *Log {
	return &Log{store: st, logger: logger}
}

// Append writes one immutable entry. A write failure surfaces to the
// caller; it is never swallowed here.
func (l *Log) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	if err := l.store.History().Append(ctx, entry); err != nil {
		l.logger.Error("audit append failed",
			zap.String("ticket_id", entry.TicketID),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	return nil
}

// Query returns entries matching the filter, newest first. All set
// filter fields must match; the limit is clamped to MaxQueryLimit.
func (l *Log) Query(ctx context.Context, filter store.HistoryFilter, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 || limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}
	entries, err := l.store.History().Query(ctx, filter, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}
