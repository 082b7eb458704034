// Package notify delivers comparison results by email.
//
// The Mailer is built from an explicit Config (relay host and port, optional
// credentials, sender identity and subject) and never reads the process
// environment. It sends only when a report has failing keys; the message body
// is the text report, failing records included.
//
// # Usage
//
//	m := notify.NewMailer(cfg.Mail)
//	if _, err := m.Notify(ctx, "ops@example.com", rep); err != nil {
//	    log.Warn("Notification failed", zap.Error(err))
//	}
package notify
