package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lacteosdev/catalogo-web/internal/config"
	"github.com/lacteosdev/catalogo-web/internal/hash"
	"github.com/lacteosdev/catalogo-web/internal/logging"
	"github.com/lacteosdev/catalogo-web/internal/mailer"
	"github.com/lacteosdev/catalogo-web/internal/models"
	"github.com/lacteosdev/catalogo-web/internal/mykafka"
	"github.com/lacteosdev/catalogo-web/internal/session"
	"github.com/lacteosdev/catalogo-web/internal/store"
)

type stubSender struct {
	calls int
	fail  error
}

func (s *stubSender) Send(ctx context.Context, to, subject, body string) error {
	s.calls++
	return s.fail
}

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Store    *store.Store
	Sessions *session.Manager
	Auth     *AuthHandler
	Products *ProductHandler
	Mail     *MailHandler
	Sender   *stubSender
	Log      *slog.Logger
	Cat      models.Category
	Unit     models.Unit
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Category{},
		&models.Unit{},
		&models.Product{},
		&models.EmailNotification{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)
	st := store.New(db)
	sessions := session.NewManager(db, []byte("test_secret"), time.Hour)
	logger := logging.New("error")
	producer := &mykafka.Producer{}
	configuration := &config.Config{ADMIN_EMAILS: []string{"root@x.com"}}
	sender := &stubSender{}

	env := &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Store:    st,
		Sessions: sessions,
		Sender:   sender,
		Log:      logger,
		Auth: &AuthHandler{
			Sessions: sessions, Store: st, Config: configuration, Producer: producer,
		},
		Products: &ProductHandler{
			Sessions: sessions, Store: st, Producer: producer,
		},
		Mail: &MailHandler{
			Sessions: sessions, Store: st,
			Notifier: &mailer.Notifier{Store: st, Sender: sender},
			Producer: producer,
		},
	}

	env.Cat = models.Category{Name: "Leche"}
	require.NoError(t, db.Create(&env.Cat).Error)
	env.Unit = models.Unit{Name: "Litro", Abbrev: "L"}
	require.NoError(t, db.Create(&env.Unit).Error)

	return env
}

func (env *testEnv) createUser(email, password, role string) models.User {
	passwordHash, err := hash.HashPassword(password)
	require.NoError(env.T, err)

	user := models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
	}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func (env *testEnv) login(email, password string) *http.Cookie {
	sess, err := env.Sessions.Authenticate(context.Background(), email, password)
	require.NoError(env.T, err)
	return &http.Cookie{Name: session.CookieName, Value: sess.Token, Path: "/"}
}

func (env *testEnv) doForm(method, path string, form url.Values, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	req = req.WithContext(logging.IntoContext(req.Context(), env.Log))
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func productForm(env *testEnv) url.Values {
	return url.Values{
		"name":        {"Leche entera"},
		"description": {"Leche pasteurizada"},
		"quantity":    {"12"},
		"unit_id":     {itoa(env.Unit.ID)},
		"category_id": {itoa(env.Cat.ID)},
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
