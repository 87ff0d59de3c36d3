package service

import "sync"

// TokenStore holds the bearer token shared by the API client and the auth
// service. It satisfies api.TokenSource.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func (t *TokenStore) Token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

func (t *TokenStore) Set(token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
}
