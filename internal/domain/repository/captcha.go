package repository

import "context"

// CaptchaVerifier defines the interface for the synchronous CAPTCHA check
// gating public contact-form submission.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}
