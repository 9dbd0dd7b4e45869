package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/lacteosdev/catalogo-web/internal/config"
	"github.com/lacteosdev/catalogo-web/internal/logging"
	"github.com/lacteosdev/catalogo-web/internal/models"
	"github.com/lacteosdev/catalogo-web/internal/store"
)

// Sender delivers one message. The SMTP client implements it; tests
// substitute a stub.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	opts := []mail.Option{mail.WithPort(cfg.SMTP_PORT)}
	if cfg.SMTP_USER != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTP_USER),
			mail.WithPassword(cfg.SMTP_PASSWORD),
		)
	}
	client, err := mail.NewClient(cfg.SMTP_HOST, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.SMTP_FROM}, nil
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("mailer: from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mailer: to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

// Notifier records and delivers product notifications. The log row is
// inserted before the delivery attempt and flipped to sent afterwards,
// so an unsent row always means the mail did not go out.
type Notifier struct {
	Store  *store.Store
	Sender Sender
}

// Notify appends the notification record and then attempts delivery.
// The returned error reflects the delivery outcome only; a failure to
// flip the sent flag after a successful delivery is logged, not surfaced.
func (n *Notifier) Notify(ctx context.Context, userID *uint, to, subject, body string) error {
	record := &models.EmailNotification{
		UserID:  userID,
		Address: to,
		Subject: subject,
		Body:    body,
	}
	if err := n.Store.CreateNotification(ctx, record); err != nil {
		return fmt.Errorf("mailer: record notification: %w", err)
	}

	if err := n.Sender.Send(ctx, to, subject, body); err != nil {
		return err
	}

	if err := n.Store.MarkNotificationSent(ctx, record.ID); err != nil {
		logging.FromContext(ctx).Error("notification sent but record not updated",
			"notification_id", record.ID, "to", to, "err", err)
	}
	return nil
}
