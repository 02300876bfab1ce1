// Package notify delivers the finished briefing: HTML email via SendGrid
// or SMTP, and Slack via the chat API. Senders report success as a bool;
// delivery failure never aborts a run.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	gomail "gopkg.in/mail.v2"
)

const sendgridSendURL = "https://api.sendgrid.com/v3/mail/send"

type EmailConfig struct {
	SendgridAPIKey string
	FromEmail      string
	ToEmail        string
	SMTPServer     string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
}

// EmailSender picks a backend per send: SendGrid when an API key is
// configured, SMTP when a password is, otherwise the send is dropped
// with a log line.
type EmailSender struct {
	cfg        EmailConfig
	sendURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewEmailSender(cfg EmailConfig, log zerolog.Logger) *EmailSender {
	if cfg.SMTPUser == "" {
		cfg.SMTPUser = cfg.FromEmail
	}
	return &EmailSender{
		cfg:        cfg,
		sendURL:    sendgridSendURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// Send delivers one HTML email and reports success. Errors are logged,
// never returned.
func (s *EmailSender) Send(subject, htmlBody string) bool {
	switch {
	case s.cfg.SendgridAPIKey != "":
		if err := s.sendSendgrid(subject, htmlBody); err != nil {
			s.log.Error().Err(err).Msg("sendgrid send failed")
			return false
		}
		s.log.Info().Str("to", s.cfg.ToEmail).Msg("email sent via sendgrid")
		return true
	case s.cfg.SMTPPass != "":
		if err := s.sendSMTP(subject, htmlBody); err != nil {
			s.log.Error().Err(err).Msg("smtp send failed")
			return false
		}
		s.log.Info().Str("to", s.cfg.ToEmail).Msg("email sent via smtp")
		return true
	default:
		s.log.Warn().Msg("no email configuration found, skipping email")
		return false
	}
}

type sendgridRequest struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
}

type sendgridPersonalization struct {
	To []sendgridAddress `json:"to"`
}

type sendgridAddress struct {
	Email string `json:"email"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (s *EmailSender) sendSendgrid(subject, htmlBody string) error {
	payload := sendgridRequest{
		Personalizations: []sendgridPersonalization{
			{To: []sendgridAddress{{Email: s.cfg.ToEmail}}},
		},
		From:    sendgridAddress{Email: s.cfg.FromEmail},
		Subject: subject,
		Content: []sendgridContent{{Type: "text/html", Value: htmlBody}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, s.sendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.SendgridAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, detail)
	}
	return nil
}

func (s *EmailSender) sendSMTP(subject, htmlBody string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", s.cfg.FromEmail)
	message.SetHeader("To", s.cfg.ToEmail)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("dial and send: %w", err)
	}
	return nil
}
