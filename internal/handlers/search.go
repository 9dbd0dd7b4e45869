package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/lacteosdev/catalogo-web/internal/logging"
	"github.com/lacteosdev/catalogo-web/internal/service/search"
	"github.com/lacteosdev/catalogo-web/internal/session"
	"github.com/lacteosdev/catalogo-web/internal/util"
	"github.com/lacteosdev/catalogo-web/internal/views"
)

type SearchHandler struct {
	Sessions *session.Manager
	ES       *elasticsearch.Client
	Index    string
}

// Page renders the search form; with a query it also runs the search
// against the product index.
func (h *SearchHandler) Page(c echo.Context) error {
	sess := h.Sessions.FromRequest(c)
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return views.Render(c, http.StatusOK, views.SearchPage(sess.Name, "", nil, false, ""))
	}

	if h.ES == nil {
		return views.Render(c, http.StatusOK,
			views.SearchPage(sess.Name, q, nil, false, "La búsqueda no está disponible"))
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	_, products, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("search error", "q", q, "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.SearchPage(sess.Name, q, nil, false, "No se pudo ejecutar la búsqueda"))
	}

	return views.Render(c, http.StatusOK, views.SearchPage(sess.Name, q, products, true, ""))
}
