package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/twelveweeks/internal/db"
	"github.com/alexanderramin/twelveweeks/internal/domain"
)

type SQLiteSessionRepo struct {
	db db.DBTX
}

func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

// storedUser is the JSON shape of the user column.
type storedUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func (r *SQLiteSessionRepo) Get(ctx context.Context) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT token, user_json, saved_at FROM auth_session WHERE id = 'current'`)

	var token, userJSON, savedAt string
	if err := row.Scan(&token, &userJSON, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("auth session: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning auth session: %w", err)
	}

	var u storedUser
	if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
		return nil, fmt.Errorf("decoding stored user: %w", err)
	}
	return &domain.Session{
		Token: token,
		User: domain.User{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			CreatedAt: parseTime(u.CreatedAt),
			UpdatedAt: parseTime(u.UpdatedAt),
		},
		SavedAt: parseTime(savedAt),
	}, nil
}

// Save replaces the stored session. SavedAt is stamped when zero.
func (r *SQLiteSessionRepo) Save(ctx context.Context, s *domain.Session) error {
	if s.Token == "" {
		return fmt.Errorf("saving auth session: empty token")
	}
	u := storedUser{ID: s.User.ID, Name: s.User.Name, Email: s.User.Email}
	if !s.User.CreatedAt.IsZero() {
		u.CreatedAt = s.User.CreatedAt.UTC().Format(timeLayout)
	}
	if !s.User.UpdatedAt.IsZero() {
		u.UpdatedAt = s.User.UpdatedAt.UTC().Format(timeLayout)
	}
	userJSON, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	savedAt := nowUTC()
	if !s.SavedAt.IsZero() {
		savedAt = s.SavedAt.UTC().Format(timeLayout)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO auth_session (id, token, user_json, saved_at) VALUES ('current', ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, user_json = excluded.user_json, saved_at = excluded.saved_at`,
		s.Token, string(userJSON), savedAt)
	if err != nil {
		return fmt.Errorf("saving auth session: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an empty store is not an error.
func (r *SQLiteSessionRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_session`); err != nil {
		return fmt.Errorf("clearing auth session: %w", err)
	}
	return nil
}
