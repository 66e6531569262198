// Package mailer delivers transactional email over SMTP.  Reservation
// confirmations are sent by the queue consumer; password reset codes
// are sent inline from the auth handler.  Both paths treat delivery
// failures as non-fatal.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text email through a single SMTP account.  An
// empty Host disables sending.
type Mailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// New builds a Mailer.  host may be empty, which turns Send into a no-op
// reporting ErrDisabled-like behavior via the returned error being nil;
// callers that care can check Enabled first.
func New(host, port, user, pass, from string) *Mailer {
	return &Mailer{Host: host, Port: port, User: user, Pass: pass, From: from}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m != nil && m.Host != "" }

// Send delivers a plain-text message to a single recipient.  When no
// SMTP host is configured the message is silently dropped.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return nil
	}
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}
