package usecase

import (
	"context"
	"testing"

	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestContactSubmit(t *testing.T) {
	s := NewContactService(&fakeCaptcha{ok: true}, &fakeMailer{}, logger.NewNop(), "hello@sleepysquid.com")

	err := s.Submit(context.Background(), ContactInput{
		Name:         "Jane",
		Email:        "jane@example.com",
		Message:      "Can you survey my roof?",
		CaptchaToken: "tok",
	})
	assert.NoError(t, err)
}

func TestContactSubmit_CaptchaFailed(t *testing.T) {
	s := NewContactService(&fakeCaptcha{ok: false}, &fakeMailer{}, logger.NewNop(), "hello@sleepysquid.com")

	err := s.Submit(context.Background(), ContactInput{
		Name:         "Jane",
		Email:        "jane@example.com",
		Message:      "hi",
		CaptchaToken: "tok",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContactSubmit_Validation(t *testing.T) {
	s := NewContactService(&fakeCaptcha{ok: true}, &fakeMailer{}, logger.NewNop(), "hello@sleepysquid.com")
	ctx := context.Background()

	assert.ErrorIs(t, s.Submit(ctx, ContactInput{Email: "jane@example.com", Message: "hi"}), ErrValidation)
	assert.ErrorIs(t, s.Submit(ctx, ContactInput{Name: "Jane", Email: "bad", Message: "hi"}), ErrValidation)
	assert.ErrorIs(t, s.Submit(ctx, ContactInput{Name: "Jane", Email: "jane@example.com"}), ErrValidation)
}
