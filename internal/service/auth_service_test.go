package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/twelveweeks/internal/api"
	"github.com/alexanderramin/twelveweeks/internal/db"
	"github.com/alexanderramin/twelveweeks/internal/domain"
	"github.com/alexanderramin/twelveweeks/internal/repository"
	"github.com/alexanderramin/twelveweeks/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_PersistsSessionAndArmsToken(t *testing.T) {
	h := newHarness(t)
	user := testutil.NewTestUser("ana@example.com")
	h.fake.AddUser(user, "secret1")
	ctx := context.Background()

	session, err := h.auth.Login(ctx, domain.Credentials{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, user.ID, session.User.ID)
	assert.Equal(t, session.Token, h.tokens.Token())

	stored, err := h.sessions.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Token, stored.Token)
	assert.Equal(t, user.Email, stored.User.Email)

	me, err := h.auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)
}

func TestLogin_WrongPasswordStoresNothing(t *testing.T) {
	h := newHarness(t)
	h.fake.AddUser(testutil.NewTestUser("ana@example.com"), "secret1")
	ctx := context.Background()

	_, err := h.auth.Login(ctx, domain.Credentials{Email: "ana@example.com", Password: "nope"})
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, h.tokens.Token())

	_, err = h.sessions.Get(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLogin_InvalidInputNeverReachesServer(t *testing.T) {
	h := newHarness(t)

	_, err := h.auth.Login(context.Background(), domain.Credentials{Email: "not-an-email"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, h.fake.Hits("POST /api/auth/login"))
}

func TestLogin_DifferentUserDropsPlanSelection(t *testing.T) {
	h := newHarness(t)
	ana := testutil.NewTestUser("ana@example.com")
	bia := testutil.NewTestUser("bia@example.com")
	h.fake.AddUser(ana, "secret1")
	h.fake.AddUser(bia, "secret2")
	ctx := context.Background()

	_, err := h.auth.Login(ctx, domain.Credentials{Email: ana.Email, Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, h.prefs.Set(ctx, repository.PrefCurrentPlan, "p1"))

	_, err = h.auth.Login(ctx, domain.Credentials{Email: ana.Email, Password: "secret1"})
	require.NoError(t, err)
	got, err := h.prefs.Get(ctx, repository.PrefCurrentPlan)
	require.NoError(t, err)
	assert.Equal(t, "p1", got)

	_, err = h.auth.Login(ctx, domain.Credentials{Email: bia.Email, Password: "secret2"})
	require.NoError(t, err)
	_, err = h.prefs.Get(ctx, repository.PrefCurrentPlan)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRegister_CreatesSession(t *testing.T) {
	h := newHarness(t)

	session, err := h.auth.Register(context.Background(), domain.Registration{
		Name: "Ana", Email: "ana@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", session.User.Name)
	assert.Equal(t, session.Token, h.tokens.Token())
}

func TestRegister_PasswordMismatch(t *testing.T) {
	h := newHarness(t)

	_, err := h.auth.Register(context.Background(), domain.Registration{
		Name: "Ana", Email: "ana@example.com", Password: "secret1", ConfirmPassword: "secret2",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, h.fake.Hits("POST /api/auth/register"))
}

func TestRestore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.auth.Restore(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, h.sessions.Save(ctx, &domain.Session{Token: "tok-1", User: domain.User{ID: "u1"}}))
	session, err := h.auth.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "tok-1", h.tokens.Token())
}

func TestMe_RejectedTokenKeepsSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.sessions.Save(ctx, &domain.Session{Token: "stale", User: domain.User{ID: "u1"}}))
	_, err := h.auth.Restore(ctx)
	require.NoError(t, err)

	_, err = h.auth.Me(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)

	stored, err := h.sessions.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "stale", stored.Token)
}

func TestMe_WithoutSession(t *testing.T) {
	h := newHarness(t)

	_, err := h.auth.Me(context.Background())
	require.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, 0, h.fake.Hits("GET /api/auth/me"))
}

func TestUpdateProfile_RefreshesStoredUser(t *testing.T) {
	h := newHarness(t)
	user := testutil.NewTestUser("ana@example.com")
	h.fake.AddUser(user, "secret1")
	ctx := context.Background()
	_, err := h.auth.Login(ctx, domain.Credentials{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)

	name := "Ana Maria"
	updated, err := h.auth.UpdateProfile(ctx, domain.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	stored, err := h.sessions.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, name, stored.User.Name)
}

func TestChangePassword(t *testing.T) {
	h := newHarness(t)
	user := testutil.NewTestUser("ana@example.com")
	h.fake.AddUser(user, "secret1")
	ctx := context.Background()
	_, err := h.auth.Login(ctx, domain.Credentials{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)

	err = h.auth.ChangePassword(ctx, domain.PasswordChange{CurrentPassword: "wrong", NewPassword: "secret2", ConfirmPassword: "secret2"})
	require.ErrorIs(t, err, api.ErrBadRequest)

	err = h.auth.ChangePassword(ctx, domain.PasswordChange{CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret2"})
	require.NoError(t, err)

	_, err = h.auth.Login(ctx, domain.Credentials{Email: user.Email, Password: "secret2"})
	require.NoError(t, err)
}

func TestLogout_ClearsLocalStateEvenWhenServerFails(t *testing.T) {
	h := newHarness(t)
	user := testutil.NewTestUser("ana@example.com")
	h.fake.AddUser(user, "secret1")
	ctx := context.Background()
	_, err := h.auth.Login(ctx, domain.Credentials{Email: user.Email, Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, h.prefs.Set(ctx, repository.PrefCurrentPlan, "p1"))
	h.fake.Fail("POST /api/auth/logout", 500)

	require.NoError(t, h.auth.Logout(ctx))
	assert.Empty(t, h.tokens.Token())
	assert.Equal(t, 1, h.fake.Hits("POST /api/auth/logout"))

	_, err = h.sessions.Get(ctx)
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = h.prefs.Get(ctx, repository.PrefCurrentPlan)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLogout_RollsBackWhenLocalClearFails(t *testing.T) {
	injected := errors.New("disk full")
	h := newHarness(t, withUoW(func(database *sql.DB) db.UnitOfWork {
		return &testutil.TableFaultUoW{DB: database, Table: "preferences", Err: injected}
	}))
	ctx := context.Background()
	require.NoError(t, h.sessions.Save(ctx, &domain.Session{Token: "tok-1", User: domain.User{ID: "u1"}}))
	require.NoError(t, h.prefs.Set(ctx, repository.PrefCurrentPlan, "p1"))
	_, err := h.auth.Restore(ctx)
	require.NoError(t, err)

	err = h.auth.Logout(ctx)
	require.ErrorIs(t, err, injected)

	stored, err := h.sessions.Get(ctx)
	require.NoError(t, err, "session clear must roll back")
	assert.Equal(t, "tok-1", stored.Token)
	got, err := h.prefs.Get(ctx, repository.PrefCurrentPlan)
	require.NoError(t, err)
	assert.Equal(t, "p1", got)
	assert.Equal(t, "tok-1", h.tokens.Token())
}

func TestLogout_ClearsCache(t *testing.T) {
	h := newHarness(t)
	h.fake.AddPlan(testutil.NewTestPlan("Q1"))
	ctx := context.Background()

	_, err := h.plans.List(ctx, api.PlanFilter{})
	require.NoError(t, err)
	require.NoError(t, h.auth.Logout(ctx))

	res, err := h.plans.List(ctx, api.PlanFilter{})
	require.NoError(t, err)
	assert.Equal(t, SourceAPI, res.Source)
	assert.Equal(t, 0, h.fake.Hits("POST /api/auth/logout"))
}
