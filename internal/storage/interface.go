package storage

import (
	"context"
	"errors"

	"github.com/yourname/moodtracker/internal"
)

var (
	ErrNotFound   = errors.New("storage: not found")
	ErrEmailTaken = errors.New("storage: email already registered")
)

// UserRecord is the stored shape of a user: the public profile plus the
// password hash, which never leaves the storage/auth boundary.
type UserRecord struct {
	internal.User
	PasswordHash string `json:"password_hash,omitempty"`
}

type UserRepository interface {
	Create(ctx context.Context, rec *UserRecord) error
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)
	GetByID(ctx context.Context, id string) (*internal.User, error)
	Update(ctx context.Context, user *internal.User) error
}

type MoodRepository interface {
	// Save inserts the entry, or replaces the existing entry for the same
	// user and calendar day.
	Save(ctx context.Context, entry *internal.MoodEntry) error
	GetByDate(ctx context.Context, userID, date string) (*internal.MoodEntry, error)
	// List returns the user's entries newest first, at most limit.
	List(ctx context.Context, userID string, limit int) ([]internal.MoodEntry, error)
}
