package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lawmbass/sleepysquid-drones/internal/domain/repository"
	"github.com/lawmbass/sleepysquid-drones/pkg/logger"
)

const recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// RecaptchaRepository calls the reCAPTCHA verification service
type RecaptchaRepository struct {
	logger  logger.Logger
	secret  string
	client  *http.Client
	baseURL string
}

// NewRecaptchaRepository creates a new reCAPTCHA verifier
func NewRecaptchaRepository(logger logger.Logger) repository.CaptchaVerifier {
	baseURL := os.Getenv("RECAPTCHA_VERIFY_URL")
	if baseURL == "" {
		baseURL = recaptchaVerifyURL
	}

	return &RecaptchaRepository{
		logger:  logger,
		secret:  os.Getenv("RECAPTCHA_SECRET_KEY"),
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

type recaptchaResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify runs one synchronous token check. An unset secret disables the gate,
// which keeps local development working without credentials.
func (r *RecaptchaRepository) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	if r.secret == "" {
		r.logger.Warn("reCAPTCHA secret not configured, skipping verification")
		return true, nil
	}

	form := url.Values{}
	form.Set("secret", r.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var body recaptchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}

	if !body.Success {
		r.logger.Warn("reCAPTCHA verification rejected", "errorCodes", body.ErrorCodes)
	}
	return body.Success, nil
}
