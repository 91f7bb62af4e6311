package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yourname/moodtracker/internal"
	"github.com/yourname/moodtracker/internal/storage"
)

var validate = validator.New()

const dayLayout = "2006-01-02"

type MoodRequest struct {
	State     int     `json:"state" validate:"min=0,max=1"`
	Intensity int     `json:"intensity" validate:"required,gte=1,lte=5"`
	Date      *string `json:"date,omitempty"`
	Note      *string `json:"note,omitempty"`
	Weather   *string `json:"weather,omitempty"`
}

func ValidateMoodRequest(req *MoodRequest) error {
	if err := validate.Struct(req); err != nil {
		return err
	}
	if req.Date != nil {
		if _, err := time.Parse(dayLayout, *req.Date); err != nil {
			return errors.New("date must be yyyy-mm-dd")
		}
	}
	return nil
}

// LogMood records the user's state for a calendar day, one entry per day: a
// second write for the same day replaces the first and marks it edited.
func LogMood(ctx context.Context, moods storage.MoodRepository, user *internal.User, req *MoodRequest, now time.Time) (*internal.MoodEntry, error) {
	date := now.Format(dayLayout)
	if req.Date != nil {
		date = *req.Date
	}

	entry := &internal.MoodEntry{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Date:      date,
		State:     req.State,
		Intensity: req.Intensity,
		Timestamp: now,
		Note:      req.Note,
		Weather:   req.Weather,
		CreatedAt: now,
	}

	existing, err := moods.GetByDate(ctx, user.ID, date)
	if err == nil {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		entry.IsEdited = true
		editedAt := now
		entry.EditedAt = &editedAt
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	if err := moods.Save(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
