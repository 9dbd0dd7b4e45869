package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/lacteosdev/catalogo-web/internal/logging"
	"github.com/lacteosdev/catalogo-web/internal/middleware/csrf"
	"github.com/lacteosdev/catalogo-web/internal/models"
	"github.com/lacteosdev/catalogo-web/internal/mykafka"
	"github.com/lacteosdev/catalogo-web/internal/service/search"
	"github.com/lacteosdev/catalogo-web/internal/session"
	"github.com/lacteosdev/catalogo-web/internal/store"
	"github.com/lacteosdev/catalogo-web/internal/views"
)

type ProductHandler struct {
	Sessions *session.Manager
	Store    *store.Store
	ES       *elasticsearch.Client
	ESIndex  string
	Producer *mykafka.Producer
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, fmt.Sprint(event["productID"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", mykafka.TopicProductEvents, "err", err)
	}
}

func (h *ProductHandler) index(ctx context.Context, prod *models.Product) {
	if h.ES == nil {
		return
	}
	if err := search.IndexProduct(ctx, h.ES, h.ESIndex, prod); err != nil {
		logging.FromContext(ctx).Error("es index error", "productID", prod.ID, "err", err)
	}
}

// Dashboard is the catalog landing for any authenticated session.
func (h *ProductHandler) Dashboard(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "product.dashboard")
	sess := h.Sessions.FromRequest(c)
	rows, err := h.Store.ListProducts(c.Request().Context())
	if err != nil {
		l.Error("list products error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.ErrorPage(sess.Name, "No se pudo consultar el catálogo"))
	}
	return views.Render(c, http.StatusOK,
		views.DashboardPage(sess.Name, rows, c.QueryParam("msg"), c.QueryParam("error")))
}

// Admin lists the catalog together with the registration form.
func (h *ProductHandler) Admin(c echo.Context) error {
	return h.renderAdmin(c, http.StatusOK, c.QueryParam("msg"), c.QueryParam("error"))
}

// AdminCreate handles the create form posted from the admin page itself.
func (h *ProductHandler) AdminCreate(c echo.Context) error {
	sess := h.Sessions.FromRequest(c)
	prod, verr := parseProductForm(c, false)
	if verr != "" {
		return h.renderAdmin(c, http.StatusBadRequest, "", verr)
	}
	prod.CreatedBy = sess.Email

	if msg, status := h.create(c, prod); msg != "" {
		return h.renderAdmin(c, status, "", msg)
	}
	return h.renderAdmin(c, http.StatusOK, "Producto registrado", "")
}

// Create handles POST /registrar_producto from the user-facing pages.
func (h *ProductHandler) Create(c echo.Context) error {
	sess := h.Sessions.FromRequest(c)
	prod, verr := parseProductForm(c, false)
	if verr != "" {
		return views.Render(c, http.StatusBadRequest, views.ErrorPage(sess.Name, verr))
	}
	prod.CreatedBy = sess.Email

	if msg, status := h.create(c, prod); msg != "" {
		return views.Render(c, status, views.ErrorPage(sess.Name, msg))
	}
	return c.Redirect(http.StatusSeeOther, "/user?msg=Producto+registrado")
}

// create runs the single store insert plus the follow-up index and
// event publication. It returns a user-facing error message, or "".
func (h *ProductHandler) create(c echo.Context, prod *models.Product) (string, int) {
	prod.Active = true
	if err := h.Store.CreateProduct(c.Request().Context(), prod); err != nil {
		if errors.Is(err, store.ErrReference) {
			return "La categoría o unidad indicada no existe", http.StatusBadRequest
		}
		logging.FromContext(c.Request().Context()).Error("create product error", "err", err)
		return "No se pudo registrar el producto", http.StatusInternalServerError
	}

	h.index(c.Request().Context(), prod)
	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return "", 0
}

// Update handles POST /producto/actualizar and POST /update.
func (h *ProductHandler) Update(c echo.Context) error {
	sess := h.Sessions.FromRequest(c)
	prod, verr := parseProductForm(c, true)
	if verr != "" {
		return views.Render(c, http.StatusBadRequest, views.ErrorPage(sess.Name, verr))
	}

	if err := h.Store.UpdateProduct(c.Request().Context(), prod); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return views.Render(c, http.StatusNotFound,
				views.ErrorPage(sess.Name, "El producto indicado no existe"))
		case errors.Is(err, store.ErrReference):
			return views.Render(c, http.StatusBadRequest,
				views.ErrorPage(sess.Name, "La categoría o unidad indicada no existe"))
		}
		logging.FromContext(c.Request().Context()).Error("update product error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.ErrorPage(sess.Name, "No se pudo actualizar el producto"))
	}

	updated, err := h.Store.GetProduct(c.Request().Context(), prod.ID)
	if err == nil {
		h.index(c.Request().Context(), updated)
	}
	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.Redirect(http.StatusSeeOther, "/user?msg=Producto+actualizado")
}

// Delete handles POST /producto/eliminar and POST /delete.
func (h *ProductHandler) Delete(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "product.delete")
	sess := h.Sessions.FromRequest(c)
	id, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("id")), 10, 32)
	if err != nil {
		return views.Render(c, http.StatusBadRequest,
			views.ErrorPage(sess.Name, "Identificador de producto inválido"))
	}

	if err := h.Store.DeleteProduct(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return views.Render(c, http.StatusNotFound,
				views.ErrorPage(sess.Name, "El producto indicado no existe"))
		}
		l.Error("delete product error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.ErrorPage(sess.Name, "No se pudo eliminar el producto"))
	}

	if h.ES != nil {
		if err := search.RemoveProduct(c.Request().Context(), h.ES, h.ESIndex, uint(id)); err != nil {
			l.Error("es remove error", "productID", id, "err", err)
		}
	}
	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": uint(id),
	})

	return c.Redirect(http.StatusSeeOther, "/user?msg=Producto+eliminado")
}

// UpdateForm renders the standalone update view (GET /updat).
func (h *ProductHandler) UpdateForm(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "product.update_form")
	sess := h.Sessions.FromRequest(c)
	cats, err := h.Store.ListCategories(c.Request().Context())
	if err != nil {
		l.Error("list categories error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.ErrorPage(sess.Name, "No se pudo cargar el formulario"))
	}
	units, err := h.Store.ListUnits(c.Request().Context())
	if err != nil {
		l.Error("list units error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.ErrorPage(sess.Name, "No se pudo cargar el formulario"))
	}
	return views.Render(c, http.StatusOK,
		views.UpdatePage(sess.Name, cats, units, c.QueryParam("msg"), c.QueryParam("error"), csrf.Token(c)))
}

func (h *ProductHandler) renderAdmin(c echo.Context, status int, msg, errMsg string) error {
	sess := h.Sessions.FromRequest(c)
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.admin")

	rows, err := h.Store.ListProducts(ctx)
	if err != nil {
		l.Error("list products error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.ErrorPage(sess.Name, "No se pudo consultar el catálogo"))
	}
	cats, err := h.Store.ListCategories(ctx)
	if err != nil {
		l.Error("list categories error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.ErrorPage(sess.Name, "No se pudo consultar el catálogo"))
	}
	units, err := h.Store.ListUnits(ctx)
	if err != nil {
		l.Error("list units error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.ErrorPage(sess.Name, "No se pudo consultar el catálogo"))
	}

	return views.Render(c, status,
		views.AdminPage(sess.Name, rows, cats, units, msg, errMsg, csrf.Token(c)))
}

// parseProductForm validates the product fields shared by the create
// and update forms. It returns the parsed product or a user-facing
// validation message; nothing is read from the store.
func parseProductForm(c echo.Context, withID bool) (*models.Product, string) {
	prod := &models.Product{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
	}

	if withID {
		id, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("id")), 10, 32)
		if err != nil {
			return nil, "Identificador de producto inválido"
		}
		prod.ID = uint(id)
	}

	if prod.Name == "" {
		return nil, "El nombre del producto es obligatorio"
	}

	// ParseFloat accepts "NaN" and "Inf" spellings, which are not
	// storable quantities and which the index rejects.
	quantity, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("quantity")), 64)
	if err != nil || math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity < 0 {
		return nil, "La cantidad debe ser un número no negativo"
	}
	prod.Quantity = quantity

	unitID, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("unit_id")), 10, 32)
	if err != nil {
		return nil, "La unidad de medida es obligatoria"
	}
	prod.UnitID = uint(unitID)

	categoryID, err := strconv.ParseUint(strings.TrimSpace(c.FormValue("category_id")), 10, 32)
	if err != nil {
		return nil, "La categoría es obligatoria"
	}
	prod.CategoryID = uint(categoryID)

	return prod, ""
}
