package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lacteosdev/catalogo-web/internal/logging"
	"github.com/lacteosdev/catalogo-web/internal/mailer"
	"github.com/lacteosdev/catalogo-web/internal/middleware/csrf"
	"github.com/lacteosdev/catalogo-web/internal/mykafka"
	"github.com/lacteosdev/catalogo-web/internal/session"
	"github.com/lacteosdev/catalogo-web/internal/store"
	"github.com/lacteosdev/catalogo-web/internal/views"
)

type MailHandler struct {
	Sessions *session.Manager
	Store    *store.Store
	Notifier *mailer.Notifier
	Producer *mykafka.Producer
}

// Form renders the share-by-email page with the product selector.
func (h *MailHandler) Form(c echo.Context) error {
	return h.render(c, http.StatusOK, c.QueryParam("msg"), c.QueryParam("error"))
}

// Send mails the selected product's details and logs the attempt. The
// notification row is written before delivery; the response reflects
// whether the mail actually went out.
func (h *MailHandler) Send(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "mail.send")
	sess := h.Sessions.FromRequest(c)

	to := strings.ToLower(strings.TrimSpace(c.FormValue("to")))
	rawID := strings.TrimSpace(c.FormValue("id"))
	if to == "" || rawID == "" {
		return h.render(c, http.StatusBadRequest, "", "Producto y destinatario son obligatorios")
	}
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return h.render(c, http.StatusBadRequest, "", "Identificador de producto inválido")
	}

	ctx := c.Request().Context()

	prod, err := h.Store.GetProduct(ctx, uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return h.render(c, http.StatusNotFound, "", "El producto indicado no existe")
		}
		l.Error("mail product lookup error", "err", err)
		return h.render(c, http.StatusInternalServerError, "", "No se pudo enviar el correo")
	}

	// The target may or may not be a registered account; the log row
	// references the account only when there is one.
	var userID *uint
	if target, err := h.Store.FindUserByEmail(ctx, to); err == nil {
		userID = &target.ID
	} else if !errors.Is(err, store.ErrNotFound) {
		l.Error("mail target lookup error", "err", err)
		return h.render(c, http.StatusInternalServerError, "", "No se pudo enviar el correo")
	}

	subject := fmt.Sprintf("Producto: %s", prod.Name)
	body := fmt.Sprintf(
		"%s le comparte un producto del catálogo.\n\nNombre: %s\nDescripción: %s\nCantidad: %g\n",
		sess.Name, prod.Name, prod.Description, prod.Quantity,
	)

	if err := h.Notifier.Notify(ctx, userID, to, subject, body); err != nil {
		l.Error("mail send error", "to", to, "err", err)
		return h.render(c, http.StatusInternalServerError, "", "No se pudo enviar el correo")
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(pubCtx, mykafka.TopicMailEvents, fmt.Sprint(prod.ID), map[string]any{
		"type":      "product_mailed",
		"productID": prod.ID,
		"to":        to,
	}); err != nil {
		l.Error("kafka publish error", "topic", mykafka.TopicMailEvents, "err", err)
	}

	return h.render(c, http.StatusOK, "Correo enviado", "")
}

func (h *MailHandler) render(c echo.Context, status int, msg, errMsg string) error {
	sess := h.Sessions.FromRequest(c)
	rows, err := h.Store.ListProducts(c.Request().Context())
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("list products error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.ErrorPage(sess.Name, "No se pudo consultar el catálogo"))
	}
	return views.Render(c, status, views.MailPage(sess.Name, rows, msg, errMsg, csrf.Token(c)))
}
