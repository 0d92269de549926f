package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/entity"
	"github.com/lawmbass/sleepysquid-drones/internal/domain/repository"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// MailSender dispatches transactional email through the Gmail API
type MailSender struct {
	gmailService *gmail.Service
	from         string
	logger       logger.Logger
}

// NewMailSender creates a new Gmail-backed mail sender
func NewMailSender(ctx context.Context, tokenSource oauth2.TokenSource, from string, logger logger.Logger) (repository.Mailer, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &MailSender{
		gmailService: service,
		from:         from,
		logger:       logger,
	}, nil
}

// Send builds an RFC 2822 message and hands it to Gmail
func (s *MailSender) Send(ctx context.Context, email *entity.OutboundEmail) error {
	if email.To == "" {
		return fmt.Errorf("recipient is required")
	}

	raw := s.buildMessage(email)
	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	_, err := s.gmailService.Users.Messages.Send("me", msg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send failed: %w", err)
	}

	s.logger.Debug("Email dispatched", "to", email.To, "subject", email.Subject)
	return nil
}

// buildMessage assembles a multipart/alternative payload so clients without
// HTML rendering still get the text body.
func (s *MailSender) buildMessage(email *entity.OutboundEmail) string {
	boundary := "sleepysquid-alt"

	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s\r\n", s.from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", email.To))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" && email.TextBody != "" {
		b.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary))
		b.WriteString(fmt.Sprintf("--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, email.TextBody))
		b.WriteString(fmt.Sprintf("--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, email.HTMLBody))
		b.WriteString(fmt.Sprintf("--%s--", boundary))
	} else if email.HTMLBody != "" {
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(email.HTMLBody)
	} else {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(email.TextBody)
	}

	return b.String()
}
