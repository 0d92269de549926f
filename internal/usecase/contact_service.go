package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/repository"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"
	"github.com/lawmbass/sleepysquid-drones/pkg/utils"
	"github.com/lawmbass/sleepysquid-drones/templates"
)

// ContactInput carries a public contact-form submission.
type ContactInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Message      string `json:"message"`
	CaptchaToken string `json:"captchaToken"`
	RemoteIP     string `json:"-"`
}

// ContactService gates public contact submissions behind the CAPTCHA check
// and forwards them to the inbox.
type ContactService struct {
	captcha repository.CaptchaVerifier
	mailer  repository.Mailer
	logger  logger.Logger
	inbox   string
}

// NewContactService creates a new contact service. inbox is the address the
// form forwards to.
func NewContactService(captcha repository.CaptchaVerifier, mailer repository.Mailer, logger logger.Logger, inbox string) *ContactService {
	return &ContactService{
		captcha: captcha,
		mailer:  mailer,
		logger:  logger,
		inbox:   inbox,
	}
}

// Submit verifies the CAPTCHA synchronously, then dispatches the message.
func (s *ContactService) Submit(ctx context.Context, in ContactInput) error {
	name := utils.SanitizeText(in.Name)
	if name == "" {
		return ValidationError("name is required")
	}
	email := utils.NormalizeEmail(in.Email)
	if !utils.IsValidEmail(email) {
		return ValidationError("invalid email address")
	}
	message := utils.SanitizeText(in.Message)
	if message == "" {
		return ValidationError("message is required")
	}

	ok, err := s.captcha.Verify(ctx, in.CaptchaToken, in.RemoteIP)
	if err != nil {
		return fmt.Errorf("captcha verification failed: %w", err)
	}
	if !ok {
		return ValidationError("captcha verification failed")
	}

	mail := templates.ContactEmail(s.inbox, name, email, message)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.Send(ctx, mail); err != nil {
			s.logger.Error("Failed to forward contact message", "from", email, "error", err)
		}
	}()
	return nil
}
