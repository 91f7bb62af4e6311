package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/yourname/moodtracker/internal"
)

// GoogleIdentity is what a verified Google ID token resolves to.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier validates a Google ID token and returns the identity it
// asserts.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// HTTPGoogleVerifier checks tokens against Google's tokeninfo endpoint.
type HTTPGoogleVerifier struct {
	TokenInfoURL string
	HTTPClient   *http.Client
	logger       internal.Logger
}

func NewHTTPGoogleVerifier(tokenInfoURL string, logger internal.Logger) *HTTPGoogleVerifier {
	return &HTTPGoogleVerifier{
		TokenInfoURL: tokenInfoURL,
		HTTPClient:   &http.Client{Timeout: 5 * time.Second},
		logger:       logger,
	}
}

func (v *HTTPGoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	u := v.TokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		v.logger.Errorf("auth: failed to create tokeninfo request: %v", err)
		return nil, err
	}
	resp, err := v.HTTPClient.Do(req)
	if err != nil {
		v.logger.Errorf("auth: failed to call tokeninfo: %v", err)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		v.logger.Errorf("auth: tokeninfo returned %d", resp.StatusCode)
		return nil, ErrInvalidToken
	}
	var payload struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		v.logger.Errorf("auth: failed to decode tokeninfo response: %v", err)
		return nil, err
	}
	if payload.Sub == "" || payload.Email == "" {
		return nil, errors.New("auth: tokeninfo response missing subject or email")
	}
	return &GoogleIdentity{
		Subject: payload.Sub,
		Email:   payload.Email,
		Name:    payload.Name,
		Picture: payload.Picture,
	}, nil
}

var _ GoogleVerifier = (*HTTPGoogleVerifier)(nil)
