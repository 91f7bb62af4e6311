package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/moodtracker/internal"
	"github.com/yourname/moodtracker/internal/auth"
	"github.com/yourname/moodtracker/internal/storage"
)

var ErrInvalidCredentials = errors.New("service: invalid email or password")

type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func ValidateRegisterRequest(req *RegisterRequest) error {
	return validate.Struct(req)
}

func ValidateLoginRequest(req *LoginRequest) error {
	return validate.Struct(req)
}

func Register(ctx context.Context, users storage.UserRepository, tokens *auth.TokenService, req *RegisterRequest) (string, *internal.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", nil, err
	}
	rec := &storage.UserRecord{
		User: internal.User{
			ID:        uuid.NewString(),
			Email:     strings.ToLower(strings.TrimSpace(req.Email)),
			Name:      req.Name,
			CreatedAt: time.Now().UTC(),
		},
		PasswordHash: hash,
	}
	if err := users.Create(ctx, rec); err != nil {
		return "", nil, err
	}
	token, err := tokens.Issue(rec.ID, time.Now())
	if err != nil {
		return "", nil, err
	}
	user := rec.User
	return token, &user, nil
}

func Login(ctx context.Context, users storage.UserRepository, tokens *auth.TokenService, req *LoginRequest) (string, *internal.User, error) {
	rec, err := users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if rec.PasswordHash == "" || !auth.CheckPassword(rec.PasswordHash, req.Password) {
		return "", nil, ErrInvalidCredentials
	}
	token, err := tokens.Issue(rec.ID, time.Now())
	if err != nil {
		return "", nil, err
	}
	user := rec.User
	return token, &user, nil
}

// GoogleLogin verifies the ID token and finds or creates the matching user.
func GoogleLogin(ctx context.Context, users storage.UserRepository, verifier auth.GoogleVerifier, tokens *auth.TokenService, idToken string) (string, *internal.User, error) {
	identity, err := verifier.Verify(ctx, idToken)
	if err != nil {
		return "", nil, err
	}

	email := strings.ToLower(identity.Email)
	rec, err := users.GetByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		provider := "google"
		rec = &storage.UserRecord{
			User: internal.User{
				ID:         uuid.NewString(),
				Email:      email,
				Provider:   &provider,
				ProviderID: &identity.Subject,
				CreatedAt:  time.Now().UTC(),
			},
		}
		if identity.Name != "" {
			name := identity.Name
			rec.Name = &name
		}
		if identity.Picture != "" {
			picture := identity.Picture
			rec.AvatarURL = &picture
		}
		if err := users.Create(ctx, rec); err != nil {
			return "", nil, err
		}
	} else if err != nil {
		return "", nil, err
	}

	token, err := tokens.Issue(rec.ID, time.Now())
	if err != nil {
		return "", nil, err
	}
	user := rec.User
	return token, &user, nil
}

// UpdateProfile applies a partial profile update: whitespace-trimmed, empty
// strings treated as absent, untouched fields preserved.
func UpdateProfile(ctx context.Context, users storage.UserRepository, user *internal.User, req *ProfileUpdateRequest) (*internal.User, error) {
	updated := *user
	if v := trimmed(req.Name); v != nil {
		updated.Name = v
	}
	if v := trimmed(req.AvatarURL); v != nil {
		updated.AvatarURL = v
	}
	now := time.Now().UTC()
	updated.UpdatedAt = &now

	if err := users.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
