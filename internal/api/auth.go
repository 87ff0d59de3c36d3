package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alexanderramin/twelveweeks/internal/domain"
)

// AuthResult is returned by login and registration.
type AuthResult struct {
	Token string
	User  domain.User
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileBody struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type passwordBody struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (AuthResult, error) {
	data, err := c.do(ctx, http.MethodPost, "auth/login", loginBody{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return AuthResult{}, err
	}
	return decodeAuth(data)
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) (AuthResult, error) {
	body := registerBody{Name: reg.Name, Email: reg.Email, Password: reg.Password}
	data, err := c.do(ctx, http.MethodPost, "auth/register", body)
	if err != nil {
		return AuthResult{}, err
	}
	return decodeAuth(data)
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	data, err := c.get(ctx, "auth/me")
	if err != nil {
		return domain.User{}, err
	}
	return decodeUser(data)
}

func (c *Client) UpdateProfile(ctx context.Context, u domain.ProfileUpdate) (domain.User, error) {
	data, err := c.do(ctx, http.MethodPut, "auth/profile", profileBody{Name: u.Name, Email: u.Email})
	if err != nil {
		return domain.User{}, err
	}
	return decodeUser(data)
}

func (c *Client) ChangePassword(ctx context.Context, p domain.PasswordChange) error {
	body := passwordBody{CurrentPassword: p.CurrentPassword, NewPassword: p.NewPassword}
	_, err := c.do(ctx, http.MethodPost, "auth/change-password", body)
	return err
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "auth/logout", nil)
	return err
}

func decodeAuth(data json.RawMessage) (AuthResult, error) {
	var w struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	if jsonKind(data) != '{' {
		return AuthResult{}, malformed("expected auth object")
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return AuthResult{}, malformed("auth: %v", err)
	}
	if w.Token == "" {
		return AuthResult{}, malformed("auth response without token")
	}
	user, err := decodeUser(w.User)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: w.Token, User: user}, nil
}

func decodeUser(data json.RawMessage) (domain.User, error) {
	w, err := decodeOne[wireUser](data, "user")
	if err != nil {
		return domain.User{}, err
	}
	return w.toDomain()
}
