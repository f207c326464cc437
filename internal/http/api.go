package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pharma-console/internal/dashboard"
	"pharma-console/internal/domain"
	"pharma-console/internal/navigation"
	"pharma-console/internal/repository"
	"pharma-console/internal/service"
	"pharma-console/internal/session"
	"pharma-console/internal/storage"
)

// Config carries the collaborators of Handler.
type Config struct {
	Auth     service.AuthService
	Sessions *session.Registry
	Tokens   *session.Tokens
	Guard    *navigation.Guard

	// Audit is optional; without it the audit listing answers 404.
	Audit repository.AuditRepository

	CookieName   string
	SecureCookie bool

	// Archive is optional; without it reports are not downloadable.
	Archive       storage.Service
	Bucket        string
	KeyPrefix     string
	PresignExpiry time.Duration

	Logger *logrus.Logger
}

// Handler wires HTTP routes to the session gate and the dashboard catalog.
type Handler struct {
	cfg    Config
	logger *logrus.Logger
}

func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "pharma_session"
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = 15 * time.Minute
	}
	if cfg.Archive != nil && cfg.Bucket == "" {
		cfg.Archive = nil
	}
	return &Handler{cfg: cfg, logger: cfg.Logger}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) error {
	tmpl, err := parseTemplates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)
	// the guard resolves trailing slashes itself
	router.RedirectTrailingSlash = false

	router.Use(requestLogger(h.logger), h.sessionMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
		api.GET("/session", h.getSession)
		api.POST("/session", h.createSession)
		api.DELETE("/session", h.deleteSession)
		api.GET("/routes", h.listRoutes)
		api.GET("/capabilities", requireSession(), h.listCapabilities)
		api.GET("/reports/archive", requireSession(), h.listArchive)
		api.GET("/audit", requireSession(), h.listAudit)
	}

	router.POST("/login", h.submitLogin)
	router.POST("/logout", h.submitLogout)
	router.GET("/reports/:id/download", h.downloadReport)

	for _, route := range h.cfg.Guard.Table().Routes() {
		if route.Pattern == navigation.CatchAll {
			continue
		}
		router.GET(route.Pattern, h.renderPath)
	}
	router.NoRoute(h.renderPath)
	return nil
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request")
	}
}

// signIn logs the form into the caller's session, creating one when the caller
// has none, and sets the cookie.
func (h *Handler) signIn(c *gin.Context, form service.LoginForm) (*domain.User, error) {
	store := currentSession(c)
	fresh := store.ID() == ""
	if fresh {
		store = h.cfg.Sessions.Create()
	}

	user, err := h.cfg.Auth.Login(c.Request.Context(), store, form)
	if err != nil {
		if fresh {
			h.cfg.Sessions.Drop(store.ID())
		}
		return nil, err
	}

	token, err := h.cfg.Tokens.Issue(store.ID())
	if err != nil {
		h.cfg.Auth.Logout(c.Request.Context(), store)
		h.cfg.Sessions.Drop(store.ID())
		return nil, err
	}
	h.setCookie(c, token)
	c.Set(sessionContextKey, store)
	return user, nil
}

func (h *Handler) signOut(c *gin.Context) {
	store := currentSession(c)
	h.cfg.Auth.Logout(c.Request.Context(), store)
	if store.ID() != "" {
		h.cfg.Sessions.Drop(store.ID())
	}
	h.clearCookie(c)
	c.Set(sessionContextKey, session.NewStore())
}

type UserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ProcessArea string `json:"processArea"`
	Persona     string `json:"persona"`
}

type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user"`
}

type RouteResponse struct {
	Pattern string `json:"pattern"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}

type AuditEventResponse struct {
	ID          int64  `json:"id"`
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Email       string `json:"email"`
	ProcessArea string `json:"process_area"`
	Persona     string `json:"persona"`
	Action      string `json:"action"`
	CreatedAt   string `json:"created_at"`
}

func auditToResponse(ev domain.AuditEvent) AuditEventResponse {
	return AuditEventResponse{
		ID:          ev.ID,
		SessionID:   ev.SessionID,
		UserID:      ev.UserID,
		UserName:    ev.UserName,
		Email:       ev.Email,
		ProcessArea: string(ev.ProcessArea),
		Persona:     string(ev.Persona),
		Action:      string(ev.Action),
		CreatedAt:   ev.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type CapabilityResponse struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Path        string   `json:"path"`
	Launchable  bool     `json:"launchable"`
	Running     []string `json:"running,omitempty"`
	Queued      []string `json:"queued,omitempty"`
}

func sessionToResponse(snap session.Snapshot) SessionResponse {
	resp := SessionResponse{Authenticated: snap.IsAuthenticated}
	if snap.User != nil {
		u := userToResponse(*snap.User)
		resp.User = &u
	}
	return resp
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		ProcessArea: string(u.ProcessArea),
		Persona:     string(u.Persona),
	}
}

func (h *Handler) getSession(c *gin.Context) {
	c.JSON(http.StatusOK, sessionToResponse(currentSession(c).Snapshot()))
}

func (h *Handler) createSession(c *gin.Context) {
	var form service.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.signIn(c, form)
	if err != nil {
		var incomplete *service.IncompleteLoginError
		if errors.As(err, &incomplete) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "missing": incomplete.Missing})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := userToResponse(*user)
	c.JSON(http.StatusOK, SessionResponse{Authenticated: true, User: &resp})
}

func (h *Handler) deleteSession(c *gin.Context) {
	h.signOut(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) listRoutes(c *gin.Context) {
	routes := h.cfg.Guard.Table().Routes()
	resp := make([]RouteResponse, len(routes))
	for i, r := range routes {
		resp[i] = RouteResponse{Pattern: r.Pattern, Name: r.Name, Kind: r.Kind.String()}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listCapabilities(c *gin.Context) {
	caps := dashboard.Capabilities()
	resp := make([]CapabilityResponse, len(caps))
	for i, cp := range caps {
		resp[i] = CapabilityResponse{
			Title:       cp.Title,
			Description: cp.Description,
			Status:      string(cp.Status),
			Path:        cp.Path,
			Launchable:  cp.Launchable(),
		}
		if cp.Batches != nil {
			resp[i].Running = cp.Batches.Running
			resp[i].Queued = cp.Batches.Queued
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listArchive(c *gin.Context) {
	if h.cfg.Archive == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report archive not configured"})
		return
	}

	objects, err := h.cfg.Archive.ListObjects(c.Request.Context(), h.cfg.Bucket, h.cfg.KeyPrefix)
	if err != nil {
		h.logger.Warnf("list report archive: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i := range objects {
		resp[i] = objectToResponse(objects[i])
	}
	c.JSON(http.StatusOK, resp)
}

// listAudit returns the newest session events. limit defaults to the
// repository's own default when absent or not a positive number.
func (h *Handler) listAudit(c *gin.Context) {
	if h.cfg.Audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "audit log not configured"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
		return
	}

	events, err := h.cfg.Audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Warnf("list audit events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]AuditEventResponse, len(events))
	for i := range events {
		resp[i] = auditToResponse(events[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) downloadReport(c *gin.Context) {
	if !currentSession(c).IsAuthenticated() {
		h.renderLogin(c, http.StatusOK, service.LoginForm{}, nil)
		return
	}

	report, ok := dashboard.ReportByID(c.Param("id"))
	if h.cfg.Archive == nil || !ok || !report.Completed() {
		h.renderNotFound(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	key := storage.ReportKey(h.cfg.KeyPrefix, report.ID)
	url, err := h.cfg.Archive.GetObjectURL(ctx, h.cfg.Bucket, key, h.cfg.PresignExpiry)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			h.renderNotFound(c)
			return
		}
		h.logger.Warnf("presign report %s: %v", report.ID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "report archive unavailable"})
		return
	}
	c.Redirect(http.StatusFound, url)
}
