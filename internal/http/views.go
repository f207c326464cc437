package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pharma-console/internal/dashboard"
	"pharma-console/internal/domain"
	"pharma-console/internal/navigation"
	"pharma-console/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"join":   strings.Join,
		"status": statusClass,
	}).ParseFS(templateFS, "templates/*.html")
}

// statusClass maps a fixture status word to a badge color.
func statusClass(status string) string {
	switch status {
	case "active", "completed", "normal", "available", "implemented", "running":
		return "badge-green"
	case "warning", "maintenance", "scheduled", "pending", "paused", "testing", "in-use":
		return "badge-yellow"
	case "critical", "offline", "failed", "error", "high", "overdue":
		return "badge-red"
	case "generating", "training", "review", "info":
		return "badge-blue"
	}
	return "badge-gray"
}

type viewData struct {
	Title string
	User  *domain.User

	Form     service.LoginForm
	Missing  []string
	Areas    []domain.ProcessArea
	Personas []domain.Persona

	Home *dashboard.Home
	Page *dashboard.View
	Path string
}

// renderPath runs the route guard for the request path and renders its decision.
func (h *Handler) renderPath(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	snap := currentSession(c).Snapshot()
	decision := h.cfg.Guard.Decide(navigation.StateOf(snap.IsAuthenticated), c.Request.URL.Path)

	switch decision.View {
	case navigation.ViewLogin:
		h.renderLogin(c, http.StatusOK, service.LoginForm{}, nil)
	case navigation.ViewHome:
		home := dashboard.NewHome(*snap.User)
		c.HTML(http.StatusOK, "home.html", viewData{
			Title: "PharmaTech Platform",
			User:  snap.User,
			Home:  &home,
			Path:  decision.Route.Pattern,
		})
	case navigation.ViewPage:
		page, ok := dashboard.PageByPath(decision.Route.Pattern)
		if !ok {
			h.renderNotFound(c)
			return
		}
		view := page.Build(dashboard.PageRequest{
			Query:          c.Request.URL.Query(),
			ArchiveEnabled: h.cfg.Archive != nil,
		})
		c.HTML(http.StatusOK, "page.html", viewData{
			Title: view.Title,
			User:  snap.User,
			Page:  &view,
			Path:  decision.Route.Pattern,
		})
	default:
		h.renderNotFound(c)
	}
}

func (h *Handler) renderLogin(c *gin.Context, status int, form service.LoginForm, missing []string) {
	c.HTML(status, "login.html", viewData{
		Title:    "Sign in",
		Form:     form,
		Missing:  missing,
		Areas:    domain.ProcessAreas(),
		Personas: domain.Personas(),
	})
}

func (h *Handler) renderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", viewData{
		Title: "Page not found",
		User:  currentSession(c).CurrentUser(),
		Path:  c.Request.URL.Path,
	})
}

func (h *Handler) submitLogin(c *gin.Context) {
	var form service.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, http.StatusBadRequest, form, nil)
		return
	}

	if _, err := h.signIn(c, form); err != nil {
		var incomplete *service.IncompleteLoginError
		if errors.As(err, &incomplete) {
			h.renderLogin(c, http.StatusUnprocessableEntity, form.Normalize(), incomplete.Missing)
			return
		}
		h.logger.Warnf("sign in: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) submitLogout(c *gin.Context) {
	h.signOut(c)
	c.Redirect(http.StatusSeeOther, "/")
}
