package repository

import (
	"context"

	"pharma-console/internal/domain"
)

// AuditRepository appends session transitions to a history log.
type AuditRepository interface {
	Init(ctx context.Context) error
	Record(ctx context.Context, event *domain.AuditEvent) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}
