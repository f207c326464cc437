package domain

import "time"

type AuditAction string

const (
	AuditActionLogin  AuditAction = "login"
	AuditActionLogout AuditAction = "logout"
)

// AuditEvent records a session transition. Events are write-only history and are
// never used to restore a session.
type AuditEvent struct {
	ID          int64
	SessionID   string
	UserID      string
	UserName    string
	Email       string
	ProcessArea ProcessArea
	Persona     Persona
	Action      AuditAction
	CreatedAt   time.Time
}
