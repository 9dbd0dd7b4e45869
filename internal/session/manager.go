package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lacteosdev/catalogo-web/internal/hash"
	"github.com/lacteosdev/catalogo-web/internal/models"
)

const CookieName = "session"

// ErrInvalidCredentials is the only failure Authenticate ever surfaces
// for a bad login. Unknown email, wrong password and deactivated account
// all collapse into it so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("session: invalid credentials")

// Manager owns the session lifecycle: a signed token in an HttpOnly
// cookie, backed by a row that is deleted on logout or expiry.
type Manager struct {
	DB     *gorm.DB
	Secret []byte
	TTL    time.Duration
}

func NewManager(db *gorm.DB, secret []byte, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{DB: db, Secret: secret, TTL: ttl}
}

// Authenticate checks the presented credentials against the credential
// store and, on success, replaces any live sessions of the account with
// a fresh one.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*models.Session, error) {
	var user models.User
	if err := m.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("session: credential lookup: %w", err)
	}

	if !user.Active || !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	// Drop whatever sessions the account still has before installing the
	// new one, so a token issued before this login can never ride along.
	if err := m.DB.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Delete(&models.Session{}).Error; err != nil {
		return nil, fmt.Errorf("session: discard previous sessions: %w", err)
	}

	expires := time.Now().Add(m.TTL)
	token, err := m.signToken(user.ID, expires)
	if err != nil {
		return nil, fmt.Errorf("session: sign token: %w", err)
	}

	sess := &models.Session{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		Active:    user.Active,
		ExpiresAt: expires,
	}
	if err := m.DB.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, fmt.Errorf("session: install session: %w", err)
	}
	return sess, nil
}

// Authorize reports whether the session may act with the required role.
// A missing or expired session is false, never an error.
func (m *Manager) Authorize(sess *models.Session, requiredRole string) bool {
	if sess == nil {
		return false
	}
	if !sess.Active || time.Now().After(sess.ExpiresAt) {
		return false
	}
	return sess.Role == requiredRole
}

// Invalidate removes all server-side state for the token. Calling it
// with an unknown, empty or already-invalidated token is a no-op.
func (m *Manager) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.DB.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("session: invalidate: %w", err)
	}
	return nil
}

// Lookup resolves a presented token to its live session. Tokens with a
// bad signature and tokens whose row is gone resolve to nil; an expired
// row is deleted on sight.
func (m *Manager) Lookup(ctx context.Context, token string) *models.Session {
	if token == "" || !m.verifyToken(token) {
		return nil
	}

	var sess models.Session
	if err := m.DB.WithContext(ctx).Where("token = ?", token).First(&sess).Error; err != nil {
		return nil
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = m.Invalidate(ctx, token)
		return nil
	}
	return &sess
}

func (m *Manager) signToken(userID uint, expires time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": uuid.New().String(),
		"exp": expires.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.Secret)
}

func (m *Manager) verifyToken(raw string) bool {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return m.Secret, nil
	})
	return err == nil && t.Valid
}

// CreateCookie builds the session cookie the way every handler expects
// it: HttpOnly, Lax, host-wide.
func CreateCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie clears the session cookie on the client.
func ExpiredCookie() *http.Cookie {
	c := CreateCookie("", time.Now().Add(-time.Hour))
	c.MaxAge = -1
	return c
}
