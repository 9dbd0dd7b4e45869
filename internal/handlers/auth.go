package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lacteosdev/catalogo-web/internal/config"
	"github.com/lacteosdev/catalogo-web/internal/hash"
	"github.com/lacteosdev/catalogo-web/internal/logging"
	"github.com/lacteosdev/catalogo-web/internal/middleware/csrf"
	"github.com/lacteosdev/catalogo-web/internal/models"
	"github.com/lacteosdev/catalogo-web/internal/mykafka"
	"github.com/lacteosdev/catalogo-web/internal/session"
	"github.com/lacteosdev/catalogo-web/internal/store"
	"github.com/lacteosdev/catalogo-web/internal/views"
)

type AuthHandler struct {
	Sessions *session.Manager
	Store    *store.Store
	Config   *config.Config
	Producer *mykafka.Producer
}

func (h *AuthHandler) publish(c echo.Context, topic string, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "topic", topic, "err", err)
	}
}

// Home renders the landing page, or goes straight to the catalog when
// the caller already holds a session.
func (h *AuthHandler) Home(c echo.Context) error {
	if sess := h.Sessions.FromRequest(c); sess != nil {
		return c.Redirect(http.StatusSeeOther, landingFor(sess))
	}
	return views.Render(c, http.StatusOK, views.IndexPage())
}

func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return views.Render(c, http.StatusOK, views.RegisterPage("", "", csrf.Token(c)))
}

func (h *AuthHandler) Register(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_register")
	name := strings.TrimSpace(c.FormValue("name"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")

	if name == "" || email == "" || password == "" {
		return views.Render(c, http.StatusBadRequest,
			views.RegisterPage("", "Todos los campos son obligatorios", csrf.Token(c)))
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("password hash error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.RegisterPage("", "No se pudo registrar el usuario", csrf.Token(c)))
	}

	role := models.RoleUser
	if h.Config.IsAdminEmail(email) {
		role = models.RoleAdmin
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
	}
	if err := h.Store.CreateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return views.Render(c, http.StatusConflict,
				views.RegisterPage("", "El correo ya está registrado", csrf.Token(c)))
		}
		l.Error("register store error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.RegisterPage("", "No se pudo registrar el usuario", csrf.Token(c)))
	}

	h.publish(c, mykafka.TopicUserEvents, fmt.Sprint(user.ID), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return views.Render(c, http.StatusOK,
		views.RegisterPage("Usuario registrado exitosamente", "", csrf.Token(c)))
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	// An already-authenticated visit skips the credential prompt so
	// back-navigation cannot resurrect it.
	if sess := h.Sessions.FromRequest(c); sess != nil {
		return c.Redirect(http.StatusSeeOther, landingFor(sess))
	}
	return views.Render(c, http.StatusOK, views.LoginPage("", csrf.Token(c)))
}

func (h *AuthHandler) Login(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_login")
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")

	if email == "" || password == "" {
		return views.Render(c, http.StatusBadRequest,
			views.LoginPage("Usuario o contraseña incorrectos", csrf.Token(c)))
	}

	ctx := c.Request().Context()

	// Whatever session the connection was carrying dies before the new
	// one is installed.
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		if err := h.Sessions.Invalidate(ctx, cookie.Value); err != nil {
			l.Error("discard presented session", "err", err)
		}
	}

	sess, err := h.Sessions.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			return views.Render(c, http.StatusUnauthorized,
				views.LoginPage("Usuario o contraseña incorrectos", csrf.Token(c)))
		}
		l.Error("login store error", "err", err)
		return views.Render(c, http.StatusInternalServerError,
			views.LoginPage("No se pudo iniciar sesión", csrf.Token(c)))
	}

	c.SetCookie(session.CreateCookie(sess.Token, sess.ExpiresAt))

	h.publish(c, mykafka.TopicUserEvents, fmt.Sprint(sess.UserID), map[string]any{
		"type":   "user_logged_in",
		"userID": sess.UserID,
		"email":  sess.Email,
	})

	return c.Redirect(http.StatusSeeOther, landingFor(sess))
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		if err := h.Sessions.Invalidate(c.Request().Context(), cookie.Value); err != nil {
			logging.FromContext(c.Request().Context()).Error("logout error", "err", err)
		}
	}
	c.SetCookie(session.ExpiredCookie())
	return c.Redirect(http.StatusSeeOther, "/login")
}

func landingFor(sess *models.Session) string {
	if sess.Role == models.RoleAdmin {
		return "/admin"
	}
	return "/user"
}
