// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/incorpora/onboarding-backend/internal/config"
	"github.com/incorpora/onboarding-backend/internal/models"
)

type NotificationService struct {
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{config: config}
}

// Account notifications

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	tmpl := s.getEmailTemplate("welcome")

	data := map[string]interface{}{
		"Username":  user.Username,
		"PortalURL": s.config.Frontend.BaseURL,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	tmpl := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"Username":  user.Username,
		"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken),
		"ExpiresIn": "1 hour",
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

// Workflow notifications

func (s *NotificationService) SendClarificationRequest(customer *models.Customer, note string) error {
	tmpl := s.getEmailTemplate("clarification_request")

	data := map[string]interface{}{
		"FirstName": customer.FirstName,
		"Note":      note,
		"PortalURL": s.config.Frontend.BaseURL,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(customer.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendReviewApprovedEmail(customer *models.Customer) error {
	tmpl := s.getEmailTemplate("review_approved")

	data := map[string]interface{}{
		"FirstName": customer.FirstName,
		"PortalURL": s.config.Frontend.BaseURL,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(customer.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendCompletionEmail(customer *models.Customer) error {
	tmpl := s.getEmailTemplate("application_completed")

	data := map[string]interface{}{
		"FirstName": customer.FirstName,
		"PortalURL": s.config.Frontend.BaseURL,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(customer.Email, tmpl.Subject, body)
}

// SendAsync sends in the background; failures are logged, never surfaced to
// the workflow operation that triggered the mail.
func (s *NotificationService) SendAsync(send func() error) {
	go func() {
		if err := send(); err != nil {
			logrus.WithError(err).Error("Failed to send notification email")
		}
	}()
}

// Internals

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPUsername == "" {
		// SMTP not configured (local development): log instead of sending.
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, skipping email")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.Email.FromName, s.config.Email.FromEmail, to, subject, body)

	addr := s.config.Email.SMTPHost + ":" + s.config.Email.SMTPPort
	if err := smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *NotificationService) renderTemplate(body string, data map[string]interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(body)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(name string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to Incorpora",
			Body:    "<p>Hi {{.Username}},</p><p>Your onboarding account is ready. Sign in at <a href=\"{{.PortalURL}}\">{{.PortalURL}}</a> to get started.</p>",
		},
		"password_reset": {
			Subject: "Password Reset Request",
			Body:    "<p>Hi {{.Username}},</p><p>Reset your password using <a href=\"{{.ResetURL}}\">this link</a>. The link expires in {{.ExpiresIn}}.</p>",
		},
		"clarification_request": {
			Subject: "Your application needs more information",
			Body:    "<p>Hi {{.FirstName}},</p><p>Your agent has a question about your application:</p><blockquote>{{.Note}}</blockquote><p>Please respond in the <a href=\"{{.PortalURL}}\">portal</a>.</p>",
		},
		"review_approved": {
			Subject: "Your application is ready for processing",
			Body:    "<p>Hi {{.FirstName}},</p><p>Your onboarding details were reviewed and your application is now being processed.</p>",
		},
		"application_completed": {
			Subject: "Your company setup is complete",
			Body:    "<p>Hi {{.FirstName}},</p><p>Congratulations — every step of your company formation is approved. Your documents are available in the <a href=\"{{.PortalURL}}\">portal</a>.</p>",
		},
	}

	if tmpl, ok := templates[name]; ok {
		return tmpl
	}
	return EmailTemplate{Subject: "Notification", Body: "<p>{{.Message}}</p>"}
}
