package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/moodtracker/internal"
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() {
	p.pool.Close()
}

// --- UserRepository ---
func (p *PostgresStorage) Create(ctx context.Context, rec *UserRecord) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO users (id, email, name, provider, provider_id, avatar_url, password_hash, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.Email, rec.Name, rec.Provider, rec.ProviderID, rec.AvatarURL, rec.PasswordHash, rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		p.logger.Errorf("failed to insert user: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, email, name, provider, provider_id, avatar_url, password_hash, created_at FROM users WHERE email = $1`, email)
	var rec UserRecord
	err := row.Scan(&rec.ID, &rec.Email, &rec.Name, &rec.Provider, &rec.ProviderID, &rec.AvatarURL, &rec.PasswordHash, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Errorf("failed to query user by email: %v", err)
		return nil, err
	}
	return &rec, nil
}

func (p *PostgresStorage) GetByID(ctx context.Context, id string) (*internal.User, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, email, name, provider, provider_id, avatar_url, created_at FROM users WHERE id = $1`, id)
	var u internal.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Provider, &u.ProviderID, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Errorf("failed to query user by id: %v", err)
		return nil, err
	}
	return &u, nil
}

func (p *PostgresStorage) Update(ctx context.Context, user *internal.User) error {
	tag, err := p.pool.Exec(ctx, `UPDATE users SET name = $2, avatar_url = $3 WHERE id = $1`,
		user.ID, user.Name, user.AvatarURL)
	if err != nil {
		p.logger.Errorf("failed to update user: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- MoodRepository ---
func (p *PostgresStorage) Save(ctx context.Context, entry *internal.MoodEntry) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO mood_entries (id, user_id, date, state, intensity, timestamp, note, weather, is_edited, edited_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, date) DO UPDATE
		SET state = EXCLUDED.state, intensity = EXCLUDED.intensity, timestamp = EXCLUDED.timestamp,
		    note = EXCLUDED.note, weather = EXCLUDED.weather, is_edited = EXCLUDED.is_edited, edited_at = EXCLUDED.edited_at`,
		entry.ID, entry.UserID, entry.Date, entry.State, entry.Intensity, entry.Timestamp,
		entry.Note, entry.Weather, entry.IsEdited, entry.EditedAt, entry.CreatedAt)
	if err != nil {
		p.logger.Errorf("failed to save mood entry: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) GetByDate(ctx context.Context, userID, date string) (*internal.MoodEntry, error) {
	row := p.pool.QueryRow(ctx, `SELECT id, user_id, date, state, intensity, timestamp, note, weather, is_edited, edited_at, created_at FROM mood_entries WHERE user_id = $1 AND date = $2`, userID, date)
	var e internal.MoodEntry
	err := row.Scan(&e.ID, &e.UserID, &e.Date, &e.State, &e.Intensity, &e.Timestamp, &e.Note, &e.Weather, &e.IsEdited, &e.EditedAt, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		p.logger.Errorf("failed to query mood entry: %v", err)
		return nil, err
	}
	return &e, nil
}

func (p *PostgresStorage) List(ctx context.Context, userID string, limit int) ([]internal.MoodEntry, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, user_id, date, state, intensity, timestamp, note, weather, is_edited, edited_at, created_at FROM mood_entries WHERE user_id = $1 ORDER BY date DESC LIMIT $2`, userID, limit)
	if err != nil {
		p.logger.Errorf("failed to query mood entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var entries []internal.MoodEntry
	for rows.Next() {
		var e internal.MoodEntry
		err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.State, &e.Intensity, &e.Timestamp, &e.Note, &e.Weather, &e.IsEdited, &e.EditedAt, &e.CreatedAt)
		if err != nil {
			p.logger.Errorf("failed to scan mood entry: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- Compile-time assertions ---
var _ UserRepository = (*PostgresStorage)(nil)
var _ MoodRepository = (*PostgresStorage)(nil)
