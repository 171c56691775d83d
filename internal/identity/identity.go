// Package identity verifies external identity-provider credentials and maps
// them to a user profile.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"foundling/internal/config"
	"foundling/internal/models"
)

// Profile is the identity returned by a provider for a verified credential.
type Profile struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"picture"`
}

// Provider verifies an external credential and returns the identity it
// asserts. Failures map to Unauthorized.
type Provider interface {
	Verify(ctx context.Context, credential string) (*Profile, error)
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"

// GoogleProvider verifies Google OAuth access tokens against the userinfo endpoint.
type GoogleProvider struct {
	httpClient *http.Client
	endpoint   string
}

// NewGoogleProvider creates a provider calling Google's userinfo endpoint.
func NewGoogleProvider() *GoogleProvider {
	return &GoogleProvider{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   googleUserInfoURL,
	}
}

// NewGoogleProviderWithEndpoint creates a provider against a custom endpoint. Used by tests.
func NewGoogleProviderWithEndpoint(client *http.Client, endpoint string) *GoogleProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleProvider{httpClient: client, endpoint: endpoint}
}

// Verify exchanges the access token for the user's profile.
func (p *GoogleProvider) Verify(ctx context.Context, credential string) (*Profile, error) {
	reqURL := fmt.Sprintf("%s?access_token=%s", p.endpoint, url.QueryEscape(credential))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, models.NewUnauthorizedError("Failed to verify identity token")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, models.NewUnauthorizedError("Failed to verify identity token")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewUnauthorizedError("Invalid identity token")
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, models.NewUnauthorizedError("Failed to verify identity token")
	}
	if profile.Email == "" {
		return nil, models.NewUnauthorizedError("Identity token has no email")
	}

	return &profile, nil
}

// MockPrefix marks credentials accepted by the mock provider.
const MockPrefix = "mock-"

// MockProvider accepts any credential prefixed with MockPrefix and maps it to
// a fixed demo identity. It exists for demo and test environments only and is
// wired in exclusively through NewProvider's environment gate.
type MockProvider struct {
	fallback Provider
}

// NewMockProvider wraps fallback so non-mock credentials still go through the
// real provider.
func NewMockProvider(fallback Provider) *MockProvider {
	return &MockProvider{fallback: fallback}
}

// Verify maps mock credentials to the demo identity and delegates the rest.
func (p *MockProvider) Verify(ctx context.Context, credential string) (*Profile, error) {
	if strings.HasPrefix(credential, MockPrefix) {
		return &Profile{
			Email:     "demo@example.com",
			Name:      "Demo User",
			AvatarURL: "https://via.placeholder.com/150",
		}, nil
	}
	if p.fallback == nil {
		return nil, models.NewUnauthorizedError("Invalid identity token")
	}
	return p.fallback.Verify(ctx, credential)
}

// NewProvider selects the provider for the current environment. The mock
// provider is only reachable when the config allows it AND the environment is
// not production; config.Validate additionally refuses that combination.
func NewProvider(cfg *config.Config) Provider {
	google := NewGoogleProvider()
	if cfg.AllowMockIdentity && !cfg.IsProduction() {
		return NewMockProvider(google)
	}
	return google
}
