package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendEscalation(identity, sessionID, reason string) error
}

type emailService struct {
	dialer       *gomail.Dialer
	senderEmail  string
	supportEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail, supportEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:       d,
		senderEmail:  senderEmail,
		supportEmail: supportEmail,
	}
}

// SendEscalation notifies the support team that a customer asked for a
// human. Failures are returned to the caller; the customer still gets
// the contact address either way.
func (s *emailService) SendEscalation(identity, sessionID, reason string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.supportEmail)
	m.SetHeader("Subject", fmt.Sprintf("Assistant escalation from customer %s", identity))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Customer escalation request</h2>
			<p><strong>Customer:</strong> %s</p>
			<p><strong>Session:</strong> %s</p>
			<p><strong>Reason:</strong></p>
			<p>%s</p>
		</div>
	`, identity, sessionID, reason)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send escalation mail: %w", err)
	}
	return nil
}
