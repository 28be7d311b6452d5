package mailer

import "github.com/ceylontrails/ceylontrails-api/pkg/logger"

// DevMailer prints emails to the log instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendPasswordResetEmail(toEmail, resetURL string) error {
	logger.Info("[DEV MAIL] Password reset email",
		"to", toEmail,
		"reset_url", resetURL,
	)
	return nil
}

func (d *DevMailer) SendInquiryNotification(toEmail, customerName, packageName, travelDate string, people int) error {
	logger.Info("[DEV MAIL] Inquiry notification",
		"to", toEmail,
		"customer", customerName,
		"package", packageName,
		"travel_date", travelDate,
		"people", people,
	)
	return nil
}
