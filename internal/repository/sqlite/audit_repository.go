package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pharma-console/internal/domain"
	"pharma-console/internal/repository"
)

const createAuditTable = `
CREATE TABLE IF NOT EXISTS session_audit (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL,
	email TEXT NOT NULL,
	process_area TEXT NOT NULL,
	persona TEXT NOT NULL,
	action TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_session_audit_created_at ON session_audit(created_at);
`

const defaultAuditLimit = 50

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) repository.AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAuditTable); err != nil {
		return fmt.Errorf("create session_audit table: %w", err)
	}
	return nil
}

func (r *AuditRepository) Record(ctx context.Context, event *domain.AuditEvent) (int64, error) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO session_audit (session_id, user_id, user_name, email, process_area, persona, action, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.SessionID,
		event.UserID,
		event.UserName,
		event.Email,
		string(event.ProcessArea),
		string(event.Persona),
		string(event.Action),
		event.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert audit event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("audit last insert id: %w", err)
	}
	event.ID = id
	return id, nil
}

// ListRecent returns the newest events first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, session_id, user_id, user_name, email, process_area, persona, action, created_at
FROM session_audit
ORDER BY id DESC
LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var (
			ev     domain.AuditEvent
			area   string
			person string
			action string
		)
		if err := rows.Scan(
			&ev.ID,
			&ev.SessionID,
			&ev.UserID,
			&ev.UserName,
			&ev.Email,
			&area,
			&person,
			&action,
			&ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev.ProcessArea = domain.ProcessArea(area)
		ev.Persona = domain.Persona(person)
		ev.Action = domain.AuditAction(action)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
