package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/lawmbass/sleepysquid-drones/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleProfile is the verified identity returned by the provider.
type GoogleProfile struct {
	Email   string
	Name    string
	Picture string
}

// GoogleOAuth handles the sign-in code exchange and bearer verification
// against Google's userinfo endpoint.
type GoogleOAuth struct {
	config *oauth2.Config
	logger logger.Logger
}

// NewGoogleOAuth creates a new Google OAuth handler for the sign-in flow
func NewGoogleOAuth(clientID, clientSecret, redirectURL string, logger logger.Logger) *GoogleOAuth {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes: []string{
			oauth2api.UserinfoEmailScope,
			oauth2api.UserinfoProfileScope,
		},
	}

	return &GoogleOAuth{
		config: config,
		logger: logger,
	}
}

// GenerateAuthURL generates a URL for the user to authorize the application
func (o *GoogleOAuth) GenerateAuthURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeCode exchanges an authorization code and returns the verified
// profile behind it.
func (o *GoogleOAuth) ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return o.fetchProfile(ctx, o.config.TokenSource(ctx, token))
}

// VerifyAccessToken resolves a bearer access token to the profile it belongs
// to. Used by the auth middleware on every authenticated request.
func (o *GoogleOAuth) VerifyAccessToken(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	return o.fetchProfile(ctx, source)
}

func (o *GoogleOAuth) fetchProfile(ctx context.Context, source oauth2.TokenSource) (*GoogleProfile, error) {
	service, err := oauth2api.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	if info.Email == "" {
		return nil, fmt.Errorf("provider returned no email")
	}

	return &GoogleProfile{
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// GmailTokenSource returns a token source for the outbound mailer, driven by
// a long-lived refresh token.
func GmailTokenSource(ctx context.Context, clientID, clientSecret, refreshToken string) oauth2.TokenSource {
	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now(), // Force refresh
	}

	return config.TokenSource(ctx, token)
}
