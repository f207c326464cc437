package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"pharma-console/internal/domain"
	"pharma-console/internal/repository"
	"pharma-console/internal/session"
)

// ErrIncompleteLogin is the only login failure: a required field was left empty.
var ErrIncompleteLogin = errors.New("incomplete login submission")

// IncompleteLoginError names the fields that were missing.
type IncompleteLoginError struct {
	Missing []string
}

func (e *IncompleteLoginError) Error() string {
	return ErrIncompleteLogin.Error() + ": missing " + strings.Join(e.Missing, ", ")
}

func (e *IncompleteLoginError) Unwrap() error {
	return ErrIncompleteLogin
}

// LoginForm is the raw sign-in submission.
type LoginForm struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	ProcessArea string `json:"processArea" form:"process_area"`
	Persona     string `json:"persona" form:"persona"`
}

// Normalize trims surrounding whitespace from every field.
func (f LoginForm) Normalize() LoginForm {
	return LoginForm{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.TrimSpace(f.Email),
		ProcessArea: strings.TrimSpace(f.ProcessArea),
		Persona:     strings.TrimSpace(f.Persona),
	}
}

// Validate reports every empty field. A process area or persona outside the
// known set counts as not selected.
func (f LoginForm) Validate() error {
	f = f.Normalize()

	var missing []string
	if f.Name == "" {
		missing = append(missing, "name")
	}
	if f.Email == "" {
		missing = append(missing, "email")
	}
	if !domain.ProcessArea(f.ProcessArea).Valid() {
		missing = append(missing, "processArea")
	}
	if !domain.Persona(f.Persona).Valid() {
		missing = append(missing, "persona")
	}
	if len(missing) > 0 {
		return &IncompleteLoginError{Missing: missing}
	}
	return nil
}

// AuthService is the submission boundary in front of a session store.
type AuthService interface {
	Login(ctx context.Context, store *session.Store, form LoginForm) (*domain.User, error)
	Logout(ctx context.Context, store *session.Store)
}

type authService struct {
	audit  repository.AuditRepository
	logger *logrus.Logger
	newID  func() string
}

// NewAuthService builds the service. audit may be nil when the audit log is off.
func NewAuthService(audit repository.AuditRepository, logger *logrus.Logger) AuthService {
	if logger == nil {
		logger = logrus.New()
	}
	return &authService{
		audit:  audit,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Login validates the form and signs the user in. On a validation error the
// store is left exactly as it was.
func (s *authService) Login(ctx context.Context, store *session.Store, form LoginForm) (*domain.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	form = form.Normalize()

	user := domain.User{
		ID:          s.newID(),
		Name:        form.Name,
		Email:       form.Email,
		ProcessArea: domain.ProcessArea(form.ProcessArea),
		Persona:     domain.Persona(form.Persona),
	}
	store.Login(user)

	s.logger.WithFields(logrus.Fields{
		"session": store.ID(),
		"user":    user.ID,
		"area":    user.ProcessArea,
		"persona": user.Persona,
	}).Info("user signed in")
	s.record(ctx, store.ID(), user, domain.AuditActionLogin)

	return &user, nil
}

// Logout signs the store out. Repeated calls are no-ops.
func (s *authService) Logout(ctx context.Context, store *session.Store) {
	user := store.CurrentUser()
	store.Logout()
	if user == nil {
		return
	}

	s.logger.WithFields(logrus.Fields{
		"session": store.ID(),
		"user":    user.ID,
	}).Info("user signed out")
	s.record(ctx, store.ID(), *user, domain.AuditActionLogout)
}

func (s *authService) record(ctx context.Context, sessionID string, user domain.User, action domain.AuditAction) {
	if s.audit == nil {
		return
	}
	event := &domain.AuditEvent{
		SessionID:   sessionID,
		UserID:      user.ID,
		UserName:    user.Name,
		Email:       user.Email,
		ProcessArea: user.ProcessArea,
		Persona:     user.Persona,
		Action:      action,
	}
	if _, err := s.audit.Record(ctx, event); err != nil {
		s.logger.Warnf("record %s audit event: %v", action, err)
	}
}
