package mailer

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer targets a local relay (Mailpit in development, an internal
// relay in staging).
type SMTPMailer struct {
	Host string
	Port int
	From string
	User string
	Pass string
}

func NewSMTPMailer(host string, port int, from, user, pass string) *SMTPMailer {
	return &SMTPMailer{
		Host: strings.TrimSpace(host),
		Port: port,
		From: strings.TrimSpace(from),
		User: strings.TrimSpace(user),
		Pass: strings.TrimSpace(pass),
	}
}

func (s *SMTPMailer) SendPasswordResetEmail(toEmail, resetURL string) error {
	subject := "Reset your Ceylon Trails admin password"
	text := fmt.Sprintf("Reset your password using this link: %s\n\nThe link expires in 1 hour and can be used once.", resetURL)
	html := fmt.Sprintf(`
		<h2>Password Reset</h2>
		<p>We received a request to reset the password for this account.</p>
		<p><a href="%s">Reset Password</a></p>
		<p>This link will expire in 1 hour and can be used once.</p>
	`, resetURL)

	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) SendInquiryNotification(toEmail, customerName, packageName, travelDate string, people int) error {
	subject := fmt.Sprintf("New booking inquiry: %s", packageName)
	text := fmt.Sprintf("%s has requested %s for %s (%d people).", customerName, packageName, travelDate, people)
	html := fmt.Sprintf(`
		<h2>New Booking Inquiry</h2>
		<p><strong>%s</strong> has requested <strong>%s</strong> for %s (%d people).</p>
	`, customerName, packageName, travelDate, people)

	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) sendEmail(toEmail, subject, text, html string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"

	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	return smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes())
}
