package notify

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"tablecompare/core/reconcile"
	"tablecompare/core/report"
)

// SendFunc delivers a composed message. It has the signature of smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends the failing records of a comparison by email.
type Mailer struct {
	cfg  Config
	send SendFunc
	now  func() time.Time
}

// NewMailer creates a mailer delivering through the configured SMTP relay.
func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

// WithSendFunc replaces the transport, for tests and alternative relays.
func (m *Mailer) WithSendFunc(send SendFunc) *Mailer {
	m.send = send
	return m
}

// Notify mails the report to recipient when it has failing keys.
// It reports whether a message was sent.
func (m *Mailer) Notify(ctx context.Context, recipient string, rep *reconcile.Report) (bool, error) {
	if !rep.HasFailures() {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	to, err := mail.ParseAddress(recipient)
	if err != nil {
		return false, fmt.Errorf("invalid recipient %q: %w", recipient, err)
	}
	from, err := mail.ParseAddress(m.cfg.Sender)
	if err != nil {
		return false, fmt.Errorf("invalid sender %q: %w", m.cfg.Sender, err)
	}

	msg, err := m.compose(from, to, rep)
	if err != nil {
		return false, err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, from.Address, []string{to.Address}, msg); err != nil {
		return false, fmt.Errorf("failed to send mail via %s: %w", addr, err)
	}
	return true, nil
}

// compose builds an RFC 5322 message whose body is the text report.
func (m *Mailer) compose(from, to *mail.Address, rep *reconcile.Report) ([]byte, error) {
	var body bytes.Buffer
	if err := report.WriteText(&body, rep); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	subject := m.cfg.Subject
	if subject == "" {
		subject = "Data comparison report"
	}
	subject = fmt.Sprintf("%s: %d failing keys", subject, rep.FailureCount())

	var msg bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&msg, "%s: %s\r\n", k, v) }
	header("From", from.String())
	header("To", to.String())
	header("Subject", mimeHeader(subject))
	header("Date", m.now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=UTF-8")
	header("Content-Transfer-Encoding", "8bit")
	msg.WriteString("\r\n")

	text := strings.ReplaceAll(body.String(), "\r\n", "\n")
	msg.WriteString(strings.ReplaceAll(text, "\n", "\r\n"))
	return msg.Bytes(), nil
}

// mimeHeader strips line breaks and Q-encodes non-ASCII text.
func mimeHeader(s string) string {
	s = strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	return mime.QEncoding.Encode("utf-8", s)
}
