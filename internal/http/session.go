package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pharma-console/internal/session"
)

const sessionContextKey = "pharma.session"

// sessionMiddleware attaches the caller's session store to the gin context.
// Callers without a valid cookie get a detached empty store.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionContextKey, h.lookupSession(c))
		c.Next()
	}
}

func (h *Handler) lookupSession(c *gin.Context) *session.Store {
	raw, err := c.Cookie(h.cfg.CookieName)
	if err != nil || raw == "" {
		return session.NewStore()
	}

	id, err := h.cfg.Tokens.Parse(raw)
	if err != nil {
		h.logger.Debugf("drop session cookie: %v", err)
		h.clearCookie(c)
		return session.NewStore()
	}

	store, ok := h.cfg.Sessions.Get(id)
	if !ok {
		h.clearCookie(c)
		return session.NewStore()
	}
	return store
}

func currentSession(c *gin.Context) *session.Store {
	if v, ok := c.Get(sessionContextKey); ok {
		if store, ok := v.(*session.Store); ok {
			return store
		}
	}
	return session.NewStore()
}

func (h *Handler) setCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// requireSession stops signed-out API callers with 401.
func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentSession(c).IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}
		c.Next()
	}
}
