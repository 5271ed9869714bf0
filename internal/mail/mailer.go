package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/petcloud/petcloud-api/internal/config"
)

// Sender é o que os handlers enxergam do serviço de e-mail.
type Sender interface {
	IsConfigured() bool
	Send(ctx context.Context, to, subject, body string) error
}

// Mailer envia e-mail transacional via SMTP, autenticando com senha de
// app ou com um token OAuth do Google (XOAUTH2).
type Mailer struct {
	cfg    *config.Config
	oauth  *OAuthService
	dialer net.Dialer
}

func NewMailer(cfg *config.Config, oauth *OAuthService) *Mailer {
	return &Mailer{
		cfg:   cfg,
		oauth: oauth,
		dialer: net.Dialer{
			Timeout: 30 * time.Second,
		},
	}
}

func (m *Mailer) IsConfigured() bool {
	if m.cfg.MailUsername == "" {
		return false
	}
	if m.cfg.MailPassword != "" {
		return true
	}
	return m.oauth != nil && m.oauth.IsAuthenticated(context.Background())
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	auth, err := m.smtpAuth(ctx)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(m.cfg.MailHost, m.cfg.MailPort)

	conn, err := m.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}

	client, err := smtp.NewClient(conn, m.cfg.MailHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.MailHost}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(m.cfg.MailUsername); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(m.buildMessage(to, subject, body))); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return client.Quit()
}

func (m *Mailer) smtpAuth(ctx context.Context) (smtp.Auth, error) {
	if m.cfg.MailPassword != "" {
		return smtp.PlainAuth("", m.cfg.MailUsername, m.cfg.MailPassword, m.cfg.MailHost), nil
	}

	if m.oauth == nil {
		return nil, fmt.Errorf("mail não configurado")
	}

	token, err := m.oauth.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}
	return newXOAuth2Auth(m.cfg.MailUsername, token), nil
}

func (m *Mailer) buildMessage(to, subject, body string) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", m.cfg.MailSender, m.cfg.MailUsername))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	return msg.String()
}

var _ Sender = (*Mailer)(nil)
