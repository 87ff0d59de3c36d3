package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/twelveweeks/internal/db"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/repository"
)

type authService struct {
	api      AuthAPI
	tokens   *TokenStore
	cache    *Cache
	sessions repository.SessionRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewAuthService(
	client AuthAPI,
	tokens *TokenStore,
	cache *Cache,
	sessions repository.SessionRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) AuthService {
	return &authService{
		api:      client,
		tokens:   tokens,
		cache:    cache,
		sessions: sessions,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *authService) Login(ctx context.Context, c domain.Credentials) (_ *domain.Session, err error) {
	defer track(ctx, s.observer, "auth.login", nil)(&err)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	res, err := s.api.Login(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, res.Token, res.User)
}

func (s *authService) Register(ctx context.Context, r domain.Registration) (_ *domain.Session, err error) {
	defer track(ctx, s.observer, "auth.register", nil)(&err)

	if err := r.Validate(); err != nil {
		return nil, err
	}
	res, err := s.api.Register(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.establish(ctx, res.Token, res.User)
}

// establish stores a new session. When a different user logs in, the
// previous user's plan selection is dropped in the same transaction.
func (s *authService) establish(ctx context.Context, token string, user domain.User) (*domain.Session, error) {
	session := &domain.Session{Token: token, User: user, SavedAt: time.Now().UTC()}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txPrefs := repository.NewSQLitePreferenceRepo(tx)

		prev, err := txSessions.Get(ctx)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if prev == nil || prev.User.ID != user.ID {
			if err := txPrefs.Delete(ctx, repository.PrefCurrentPlan); err != nil {
				return err
			}
		}
		return txSessions.Save(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.tokens.Set(token)
	s.cache.Clear()
	return session, nil
}

func (s *authService) Logout(ctx context.Context) (err error) {
	fields := map[string]any{}
	defer track(ctx, s.observer, "auth.logout", fields)(&err)

	if s.tokens.Token() != "" {
		if serverErr := s.api.Logout(ctx); serverErr != nil {
			fields["server_error"] = serverErr.Error()
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSessionRepo(tx).Clear(ctx); err != nil {
			return err
		}
		return repository.NewSQLitePreferenceRepo(tx).Delete(ctx, repository.PrefCurrentPlan)
	})
	if err != nil {
		return err
	}

	s.tokens.Set("")
	s.cache.Clear()
	return nil
}

func (s *authService) Restore(ctx context.Context) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	s.tokens.Set(session.Token)
	return session, nil
}

func (s *authService) Me(ctx context.Context) (_ *domain.User, err error) {
	defer track(ctx, s.observer, "auth.me", nil)(&err)

	if s.tokens.Token() == "" {
		return nil, ErrNotLoggedIn
	}
	u, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.storeUser(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *authService) UpdateProfile(ctx context.Context, p domain.ProfileUpdate) (_ *domain.User, err error) {
	defer track(ctx, s.observer, "auth.update_profile", nil)(&err)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if s.tokens.Token() == "" {
		return nil, ErrNotLoggedIn
	}
	u, err := s.api.UpdateProfile(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := s.storeUser(ctx, u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *authService) ChangePassword(ctx context.Context, p domain.PasswordChange) (err error) {
	defer track(ctx, s.observer, "auth.change_password", nil)(&err)

	if err := p.Validate(); err != nil {
		return err
	}
	if s.tokens.Token() == "" {
		return ErrNotLoggedIn
	}
	return s.api.ChangePassword(ctx, p)
}

// storeUser refreshes the user copy kept with the session.
func (s *authService) storeUser(ctx context.Context, u domain.User) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		session, err := txSessions.Get(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return err
		}
		session.User = u
		session.SavedAt = time.Time{}
		return txSessions.Save(ctx, session)
	})
}
