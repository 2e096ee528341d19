package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	netmail "net/mail"
	"net/smtp"
)

// Mailer delivers the password reset link out of band. The raw token only
// ever travels inside resetURL; it is never logged or persisted here.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

const resetSubject = "Reset Your Password"

var resetBody = template.Must(template.New("reset").Parse(`<html>
<body style="font-family: sans-serif;">
  <h2>Password Reset</h2>
  <p>We received a request to reset the password for your account.</p>
  <p><a href="{{.ResetURL}}">Reset your password</a></p>
  <p>This link expires in one hour. If you did not request a reset, you can
  safely ignore this email.</p>
  <p>&mdash; {{.CompanyName}}</p>
</body>
</html>`))

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendPasswordReset renders the reset email and hands it to the relay.
func (m *SMTPMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	var body bytes.Buffer
	data := struct {
		ResetURL    string
		CompanyName string
	}{ResetURL: resetURL, CompanyName: "York Publishing Co."}
	if err := resetBody.Execute(&body, data); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", resetSubject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	// The envelope sender must be a bare address even when the From
	// header carries a display name.
	envelopeFrom := m.from
	if parsed, err := netmail.ParseAddress(m.from); err == nil {
		envelopeFrom = parsed.Address
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, envelopeFrom, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
