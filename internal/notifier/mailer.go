package notifier

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer delivers a single plain-text email.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP relay. Auth is skipped when
// no username is configured, which matches local mailcatcher setups.
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
}

// NewSMTPMailer constructs a mailer. addr is host:port; host alone is used
// for AUTH negotiation.
func NewSMTPMailer(addr, host, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		addr:     addr,
		host:     host,
		username: username,
		password: password,
		from:     from,
	}
}

// Send composes an RFC 5322 message and submits it to the relay.
func (m *SMTPMailer) Send(to, subject, body string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", m.from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(m.addr, auth, m.from, []string{to}, []byte(sb.String()))
}
