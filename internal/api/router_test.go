package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yourname/moodtracker/internal"
	"github.com/yourname/moodtracker/internal/auth"
	"github.com/yourname/moodtracker/internal/storage"
)

type fakeVerifier struct {
	identity *auth.GoogleIdentity
}

func (f *fakeVerifier) Verify(ctx context.Context, idToken string) (*auth.GoogleIdentity, error) {
	if f.identity == nil {
		return nil, auth.ErrInvalidToken
	}
	return f.identity, nil
}

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	logger := internal.NopLogger()
	users, moods, err := storage.NewFileRepositories(
		filepath.Join(dir, "users.json"),
		filepath.Join(dir, "moods.json"),
		logger,
	)
	assert.NoError(t, err)

	return NewRouter(Deps{
		Users:    users,
		Moods:    moods,
		Tokens:   auth.NewTokenService("test-secret", time.Hour),
		Verifier: &fakeVerifier{identity: &auth.GoogleIdentity{Subject: "g1", Email: "g@example.com", Name: "G"}},
		Logger:   logger,
	})
}

func doJSON(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, r *gin.Engine) string {
	rec := doJSON(r, "POST", "/auth/register", "", `{"email":"a@b.c","password":"longenough","name":"A"}`)
	assert.Equal(t, 201, rec.Code)
	var out struct {
		Token string        `json:"token"`
		User  internal.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "a@b.c", out.User.Email)
	return out.Token
}

func TestRegisterLoginFlow(t *testing.T) {
	r := setupRouter(t)
	registerUser(t, r)

	// Duplicate email
	rec := doJSON(r, "POST", "/auth/register", "", `{"email":"a@b.c","password":"longenough"}`)
	assert.Equal(t, 409, rec.Code)

	// Login with correct and wrong password
	rec = doJSON(r, "POST", "/auth/login", "", `{"email":"a@b.c","password":"longenough"}`)
	assert.Equal(t, 200, rec.Code)
	rec = doJSON(r, "POST", "/auth/login", "", `{"email":"a@b.c","password":"wrongwrong"}`)
	assert.Equal(t, 401, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := setupRouter(t)
	rec := doJSON(r, "POST", "/auth/register", "", `{"email":"not-an-email","password":"longenough"}`)
	assert.Equal(t, 400, rec.Code)
	rec = doJSON(r, "POST", "/auth/register", "", `{"email":"a@b.c","password":"short"}`)
	assert.Equal(t, 400, rec.Code)
}

func TestGoogleLogin(t *testing.T) {
	r := setupRouter(t)
	rec := doJSON(r, "POST", "/auth/google", "", `{"token":"google-id-token"}`)
	assert.Equal(t, 200, rec.Code)
	var out struct {
		Token string        `json:"token"`
		User  internal.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "g@example.com", out.User.Email)
	if assert.NotNil(t, out.User.Provider) {
		assert.Equal(t, "google", *out.User.Provider)
	}

	// Second login reuses the same account
	rec = doJSON(r, "POST", "/auth/google", "", `{"token":"google-id-token"}`)
	assert.Equal(t, 200, rec.Code)
	var again struct {
		User internal.User `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &again))
	assert.Equal(t, out.User.ID, again.User.ID)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := setupRouter(t)
	for _, path := range []string{"/profile", "/states", "/analytics/dashboard"} {
		rec := doJSON(r, "GET", path, "", "")
		assert.Equal(t, 401, rec.Code, path)
	}
	rec := doJSON(r, "GET", "/profile", "garbage-token", "")
	assert.Equal(t, 401, rec.Code)
}

func TestProfileUpdate(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r)

	rec := doJSON(r, "PUT", "/profile", token, `{"name":"  New Name  ","avatar_url":"https://img.example/a.png"}`)
	assert.Equal(t, 200, rec.Code)
	var user internal.User
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	if assert.NotNil(t, user.Name) {
		assert.Equal(t, "New Name", *user.Name)
	}

	rec = doJSON(r, "GET", "/profile", token, "")
	assert.Equal(t, 200, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	if assert.NotNil(t, user.AvatarURL) {
		assert.Equal(t, "https://img.example/a.png", *user.AvatarURL)
	}
}

func TestMoodLoggingAndEdit(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r)
	today := time.Now().Format("2006-01-02")

	rec := doJSON(r, "POST", "/states", token, `{"state":1,"intensity":4}`)
	assert.Equal(t, 201, rec.Code)
	var entry internal.MoodEntry
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.Equal(t, today, entry.Date)
	assert.False(t, entry.IsEdited)

	// Same day again: replaced in place, marked edited
	rec = doJSON(r, "POST", "/states", token, `{"state":0,"intensity":2}`)
	assert.Equal(t, 201, rec.Code)
	var edited internal.MoodEntry
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &edited))
	assert.Equal(t, entry.ID, edited.ID)
	assert.True(t, edited.IsEdited)
	assert.NotNil(t, edited.EditedAt)

	rec = doJSON(r, "GET", "/states/date/"+today, token, "")
	assert.Equal(t, 200, rec.Code)
	var fetched internal.MoodEntry
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, 0, fetched.State)
}

func TestMoodValidation(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r)

	rec := doJSON(r, "POST", "/states", token, `{"state":1,"intensity":9}`)
	assert.Equal(t, 400, rec.Code)
	rec = doJSON(r, "POST", "/states", token, `{"state":2,"intensity":3}`)
	assert.Equal(t, 400, rec.Code)
	rec = doJSON(r, "POST", "/states", token, `{"state":1,"intensity":3,"date":"31-08-2026"}`)
	assert.Equal(t, 400, rec.Code)
}

func TestMoodByDateNotFound(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r)

	rec := doJSON(r, "GET", "/states/date/2020-01-01", token, "")
	assert.Equal(t, 404, rec.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestMoodHistoryNewestFirst(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r)
	today := time.Now()

	for i := 2; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		rec := doJSON(r, "POST", "/states", token, `{"state":1,"intensity":3,"date":"`+date+`"}`)
		assert.Equal(t, 201, rec.Code)
	}

	rec := doJSON(r, "GET", "/states?limit=2", token, "")
	assert.Equal(t, 200, rec.Code)
	var entries []internal.MoodEntry
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	if assert.Len(t, entries, 2) {
		assert.True(t, entries[0].Date > entries[1].Date)
	}

	rec = doJSON(r, "GET", "/states?limit=nope", token, "")
	assert.Equal(t, 400, rec.Code)
}

func TestDashboard(t *testing.T) {
	r := setupRouter(t)
	token := registerUser(t, r)
	today := time.Now()

	// 2 positive days ending today, 1 negative before them
	for i, state := range []int{0, 1, 1} {
		date := today.AddDate(0, 0, i-2).Format("2006-01-02")
		body, _ := json.Marshal(map[string]interface{}{"state": state, "intensity": 3, "date": date})
		rec := doJSON(r, "POST", "/states", token, string(body))
		assert.Equal(t, 201, rec.Code)
	}

	rec := doJSON(r, "GET", "/analytics/dashboard?range=weekly", token, "")
	assert.Equal(t, 200, rec.Code)
	var stats internal.DashboardStats
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "weekly", stats.Range)
	assert.Equal(t, 3, stats.TotalEntries)
	assert.Equal(t, 2, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Len(t, stats.RecentPerformance, 7)

	rec = doJSON(r, "GET", "/analytics/dashboard?range=daily", token, "")
	assert.Equal(t, 400, rec.Code)

	// Default range is monthly
	rec = doJSON(r, "GET", "/analytics/dashboard", token, "")
	assert.Equal(t, 200, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "monthly", stats.Range)
}
