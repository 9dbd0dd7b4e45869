package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/lacteosdev/catalogo-web/internal/models"
)

func doGet(m *Manager, mw echo.MiddlewareFunc, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	_ = handler(c)
	return rec
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	m, _ := newTestManager(t)

	rec := doGet(m, m.RequireUser)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireUserPassesAuthenticated(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "a@x.com", "S1", models.RoleUser, true)

	sess, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.NoError(t, err)

	rec := doGet(m, m.RequireUser, &http.Cookie{Name: CookieName, Value: sess.Token})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestRequireUserRedirectsAfterInvalidate(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "a@x.com", "S1", models.RoleUser, true)

	sess, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.NoError(t, err)
	require.NoError(t, m.Invalidate(context.Background(), sess.Token))

	rec := doGet(m, m.RequireUser, &http.Cookie{Name: CookieName, Value: sess.Token})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAdminDeniesUserRole(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "a@x.com", "S1", models.RoleUser, true)

	sess, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.NoError(t, err)

	rec := doGet(m, m.RequireAdmin, &http.Cookie{Name: CookieName, Value: sess.Token})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "Acceso denegado")
}

func TestRequireAdminRedirectsAnonymous(t *testing.T) {
	m, _ := newTestManager(t)

	rec := doGet(m, m.RequireAdmin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAdminPassesAdmin(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "root@x.com", "S1", models.RoleAdmin, true)

	sess, err := m.Authenticate(context.Background(), "root@x.com", "S1")
	require.NoError(t, err)

	rec := doGet(m, m.RequireAdmin, &http.Cookie{Name: CookieName, Value: sess.Token})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGatedResponsesAreNotCacheable(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "a@x.com", "S1", models.RoleUser, true)

	sess, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.NoError(t, err)

	rec := doGet(m, m.RequireUser, &http.Cookie{Name: CookieName, Value: sess.Token})
	require.Equal(t, "no-store, no-cache, must-revalidate", rec.Header().Get("Cache-Control"))
	require.Equal(t, "no-cache", rec.Header().Get("Pragma"))

	// The redirect for an anonymous caller carries the headers too.
	rec = doGet(m, m.RequireUser)
	require.Equal(t, "no-store, no-cache, must-revalidate", rec.Header().Get("Cache-Control"))
}
