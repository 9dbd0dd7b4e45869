package views

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/lacteosdev/catalogo-web/internal/models"
	"github.com/lacteosdev/catalogo-web/internal/store"
)

func TestLoginPageRendersErrorAndToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Render(c, http.StatusOK, LoginPage("Usuario o contraseña incorrectos", "tok123")))
	body := rec.Body.String()
	require.Contains(t, body, "Usuario o contraseña incorrectos")
	require.Contains(t, body, `value="tok123"`)
	require.Contains(t, body, `action="/login"`)
}

func TestAdminPageRendersFormAndRows(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	rows := []store.ProductRow{
		{ID: 1, Name: "Leche entera", Quantity: 12, UnitName: "Litro", Category: "Leche", CreatedBy: "a@x.com"},
	}
	cats := []models.Category{{ID: 1, Name: "Leche"}}
	units := []models.Unit{{ID: 1, Name: "Litro", Abbrev: "L"}}

	require.NoError(t, Render(c, http.StatusOK, AdminPage("Ana", rows, cats, units, "", "", "tok")))
	body := rec.Body.String()
	require.Contains(t, body, "Leche entera")
	require.Contains(t, body, `action="/admin"`)
	require.Contains(t, body, `action="/producto/eliminar"`)
	require.Contains(t, body, "Sesión: Ana")
}

func TestDashboardPageEmptyCatalog(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Render(c, http.StatusOK, DashboardPage("Ana", nil, "", "")))
	require.Contains(t, rec.Body.String(), "No hay productos registrados")
}

func TestDeniedPage(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Render(c, http.StatusForbidden, DeniedPage("Ana")))
	require.Contains(t, rec.Body.String(), "Acceso denegado")
}
