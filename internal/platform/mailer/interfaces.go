package mailer

// Service sends the two transactional emails the site produces: the
// password-reset link for admins and the new-inquiry notification for the
// operator inbox.
type Service interface {
	SendPasswordResetEmail(toEmail, resetURL string) error
	SendInquiryNotification(toEmail, customerName, packageName, travelDate string, people int) error
}
