package session

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lacteosdev/catalogo-web/internal/hash"
	"github.com/lacteosdev/catalogo-web/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Session{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestManager(t *testing.T) (*Manager, *gorm.DB) {
	db := initTestDB(t)
	return NewManager(db, []byte("test_secret"), time.Hour), db
}

func createUser(t *testing.T, db *gorm.DB, email, password, role string, active bool) models.User {
	passwordHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: passwordHash,
		Role:         role,
		Active:       active,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestAuthenticateUnknownAndWrongSecretIndistinguishable(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "a@x.com", "S1", models.RoleUser, true)

	_, errUnknown := m.Authenticate(context.Background(), "nobody@x.com", "S1")
	_, errWrong := m.Authenticate(context.Background(), "a@x.com", "wrong")

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, ErrInvalidCredentials)
	require.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "a@x.com", "S1", models.RoleUser, false)

	_, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateSuccess(t *testing.T) {
	m, db := newTestManager(t)
	user := createUser(t, db, "a@x.com", "S1", models.RoleUser, true)

	sess, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.NoError(t, err)
	require.Equal(t, user.ID, sess.UserID)
	require.Equal(t, "a@x.com", sess.Email)
	require.Equal(t, models.RoleUser, sess.Role)
	require.True(t, sess.Active)
	require.NotEmpty(t, sess.Token)

	require.True(t, m.Authorize(sess, models.RoleUser))
	require.False(t, m.Authorize(sess, models.RoleAdmin))
}

func TestAuthorizeWithoutSession(t *testing.T) {
	m, _ := newTestManager(t)

	require.False(t, m.Authorize(nil, models.RoleUser))
	require.False(t, m.Authorize(nil, models.RoleAdmin))
}

func TestAuthorizeExpiredSession(t *testing.T) {
	m, _ := newTestManager(t)

	sess := &models.Session{
		Role:      models.RoleUser,
		Active:    true,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.False(t, m.Authorize(sess, models.RoleUser))
}

func TestInvalidateIdempotent(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "a@x.com", "S1", models.RoleUser, true)

	sess, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.NoError(t, err)

	require.NoError(t, m.Invalidate(context.Background(), sess.Token))
	require.NoError(t, m.Invalidate(context.Background(), sess.Token))
	require.NoError(t, m.Invalidate(context.Background(), "never-issued"))
	require.NoError(t, m.Invalidate(context.Background(), ""))

	require.Nil(t, m.Lookup(context.Background(), sess.Token))
}

func TestAuthenticateDiscardsPreviousSessions(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "a@x.com", "S1", models.RoleUser, true)

	first, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.NoError(t, err)
	second, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.NoError(t, err)

	require.Nil(t, m.Lookup(context.Background(), first.Token))
	require.NotNil(t, m.Lookup(context.Background(), second.Token))
}

func TestLookupRejectsTamperedToken(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "a@x.com", "S1", models.RoleUser, true)

	sess, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.NoError(t, err)

	other := NewManager(db, []byte("another_secret"), time.Hour)
	require.Nil(t, other.Lookup(context.Background(), sess.Token))
}

func TestLookupDeletesExpiredRow(t *testing.T) {
	m, db := newTestManager(t)
	createUser(t, db, "a@x.com", "S1", models.RoleUser, true)

	sess, err := m.Authenticate(context.Background(), "a@x.com", "S1")
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Session{}).
		Where("token = ?", sess.Token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	require.Nil(t, m.Lookup(context.Background(), sess.Token))

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Where("token = ?", sess.Token).Count(&count).Error)
	require.Zero(t, count)
}
