package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lacteosdev/catalogo-web/internal/models"
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

func newTestNotifier(t *testing.T, sender Sender) (*Notifier, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.EmailNotification{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &Notifier{
		Store:  store.New(db),
		Sender: sender,
	}, db
}

func TestNotifyRecordsThenSends(t *testing.T) {
	sender := &stubSender{}
	n, db := newTestNotifier(t, sender)

	err := n.Notify(context.Background(), nil, "b@x.com", "Producto: Leche", "detalle")
	require.NoError(t, err)
	require.Equal(t, 1, sender.calls)

	var rec models.EmailNotification
	require.NoError(t, db.First(&rec).Error)
	require.Equal(t, "b@x.com", rec.Address)
	require.True(t, rec.Sent)
}

func TestNotifySendFailureLeavesRecordUnsent(t *testing.T) {
	sender := &stubSender{fail: errors.New("smtp unreachable")}
	n, db := newTestNotifier(t, sender)

	err := n.Notify(context.Background(), nil, "b@x.com", "Producto: Leche", "detalle")
	require.Error(t, err)

	// The attempt is on record but never marked as delivered.
	var rec models.EmailNotification
	require.NoError(t, db.First(&rec).Error)
	require.False(t, rec.Sent)
}

func TestNotifyKeepsTargetReference(t *testing.T) {
	sender := &stubSender{}
	n, db := newTestNotifier(t, sender)

	target := uint(42)
	require.NoError(t, n.Notify(context.Background(), &target, "b@x.com", "s", "b"))

	var rec models.EmailNotification
	require.NoError(t, db.First(&rec).Error)
	require.NotNil(t, rec.UserID)
	require.EqualValues(t, 42, *rec.UserID)
}
