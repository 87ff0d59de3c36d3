package repository

import (
	"context"

	"github.com/alexanderramin/twelveweeks/internal/domain"
)

// SessionRepo persists the single logged-in session.
type SessionRepo interface {
	Get(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Clear(ctx context.Context) error
}

// PreferenceRepo is a small key/value store for client-side settings.
type PreferenceRepo interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Preference keys.
const (
	PrefCurrentPlan = "current_plan_id"
)
