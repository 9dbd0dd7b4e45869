package session

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lacteosdev/catalogo-web/internal/models"
	"github.com/lacteosdev/catalogo-web/internal/views"
)

const contextKey = "session"

// FromRequest returns the live session for the request's cookie, or nil.
func (m *Manager) FromRequest(c echo.Context) *models.Session {
	if v := c.Get(contextKey); v != nil {
		if sess, ok := v.(*models.Session); ok {
			return sess
		}
	}
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return nil
	}
	sess := m.Lookup(c.Request().Context(), cookie.Value)
	if sess != nil {
		c.Set(contextKey, sess)
	}
	return sess
}

// RequireUser gates pages that need any authenticated session. A failed
// gate redirects to the login entry point before any handler runs.
func (m *Manager) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		noStore(c)
		sess := m.FromRequest(c)
		if !m.Authorize(sess, models.RoleUser) && !m.Authorize(sess, models.RoleAdmin) {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		return next(c)
	}
}

// RequireAdmin gates the admin pages. Anonymous callers go to the login
// page; an authenticated session without the admin role gets an explicit
// access-denied response and the handler never runs.
func (m *Manager) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		noStore(c)
		sess := m.FromRequest(c)
		if sess == nil {
			return c.Redirect(http.StatusSeeOther, "/login")
		}
		if !m.Authorize(sess, models.RoleAdmin) {
			return views.Render(c, http.StatusForbidden, views.DeniedPage(sess.Name))
		}
		return next(c)
	}
}

// noStore keeps authenticated bodies out of the browser cache so that
// back-navigation after logout cannot show stale content.
func noStore(c echo.Context) {
	h := c.Response().Header()
	h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
