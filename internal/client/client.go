package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/yourname/moodtracker/internal"
	"github.com/yourname/moodtracker/internal/analytics"
)

// CredentialSource supplies the bearer token for authenticated calls.
// *session.Store satisfies it.
type CredentialSource interface {
	Token() string
}

// Client is a thin wrapper around the mood-tracking API. It maps transport
// and status failures to the package's error taxonomy and does nothing else:
// no retries, no caching, no session mutation.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	creds      CredentialSource
	logger     internal.Logger
}

func New(baseURL string, creds CredentialSource, logger internal.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		creds:      creds,
		logger:     logger,
	}
}

type LoginResult struct {
	Token string        `json:"token"`
	User  internal.User `json:"user"`
}

type registerRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type socialLoginRequest struct {
	Token string `json:"token"`
}

type profileUpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// MoodRequest is the body for logging a day's state.
type MoodRequest struct {
	State     int     `json:"state"` // 1 = positive, 0 = negative
	Intensity int     `json:"intensity"`
	Date      *string `json:"date,omitempty"`
	Note      *string `json:"note,omitempty"`
	Weather   *string `json:"weather,omitempty"`
}

// --- Authentication ---

func (c *Client) Register(ctx context.Context, email, password string, name *string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/register", registerRequest{Email: email, Password: password, Name: name}, false, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, false, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginWithGoogle exchanges a Google ID token for an API session.
func (c *Client) LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/google", socialLoginRequest{Token: idToken}, false, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Profile ---

func (c *Client) Profile(ctx context.Context) (*internal.User, error) {
	var out internal.User
	if err := c.do(ctx, http.MethodGet, "/profile", nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, name, avatarURL *string) (*internal.User, error) {
	var out internal.User
	body := profileUpdateRequest{Name: name, AvatarURL: avatarURL}
	if err := c.do(ctx, http.MethodPut, "/profile", body, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Mood entries ---

func (c *Client) LogMood(ctx context.Context, req MoodRequest) (*internal.MoodEntry, error) {
	var out internal.MoodEntry
	if err := c.do(ctx, http.MethodPost, "/states", req, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TodayMood returns nil without error when nothing is logged today.
func (c *Client) TodayMood(ctx context.Context) (*internal.MoodEntry, error) {
	today := time.Now().Format("2006-01-02")
	var out internal.MoodEntry
	err := c.do(ctx, http.MethodGet, "/states/date/"+today, nil, true, &out)
	if err != nil {
		if errors404(err) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// MoodHistory returns entries newest first.
func (c *Client) MoodHistory(ctx context.Context, limit int) ([]internal.MoodEntry, error) {
	var out []internal.MoodEntry
	path := "/states?limit=" + strconv.Itoa(limit)
	if err := c.do(ctx, http.MethodGet, path, nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Dashboard ---

func (c *Client) DashboardStats(ctx context.Context, rng analytics.Range) (*internal.DashboardStats, error) {
	var out internal.DashboardStats
	path := "/analytics/dashboard?range=" + url.QueryEscape(string(rng))
	if err := c.do(ctx, http.MethodGet, path, nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func errors404(err error) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr) && serverErr.Status == http.StatusNotFound
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool, out interface{}) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return ErrInvalidURL
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		c.logger.Errorf("client: failed to create request: %v", err)
		return ErrInvalidURL
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		token := c.creds.Token()
		if token == "" {
			return ErrUnauthorized
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.Errorf("client: %s %s failed: %v", method, path, err)
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ErrInvalidResponse
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	default:
		var serverBody struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(data, &serverBody); jsonErr == nil && serverBody.Error != "" {
			return &ServerError{Status: resp.StatusCode, Message: serverBody.Error}
		}
		return &ServerError{Status: resp.StatusCode, Message: "request failed with status " + strconv.Itoa(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Errorf("client: failed to decode %s %s response: %v", method, path, err)
		return ErrDecoding
	}
	return nil
}
