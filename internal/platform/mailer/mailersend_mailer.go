package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendPasswordResetEmail(toEmail, resetURL string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Reset your Ceylon Trails admin password"
	html := fmt.Sprintf(`
		<h2>Password Reset</h2>
		<p>We received a request to reset the password for this account.</p>
		<p><a href="%s" style="background-color: #0f766e; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
		<p>This link will expire in 1 hour and can be used once.</p>
		<p>If you didn't request a reset, you can safely ignore this email.</p>
	`, resetURL)

	text := fmt.Sprintf("Reset your password using this link: %s\n\nThe link expires in 1 hour and can be used once.", resetURL)

	return m.sendEmail(toEmail, "", subject, text, html)
}

func (m *MailerSendClient) SendInquiryNotification(toEmail, customerName, packageName, travelDate string, people int) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("New booking inquiry: %s", packageName)
	html := fmt.Sprintf(`
		<h2>New Booking Inquiry</h2>
		<p><strong>%s</strong> has requested <strong>%s</strong> for %s (%d people).</p>
		<p>Open the admin dashboard to follow up.</p>
	`, customerName, packageName, travelDate, people)

	text := fmt.Sprintf("%s has requested %s for %s (%d people).", customerName, packageName, travelDate, people)

	return m.sendEmail(toEmail, "", subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
