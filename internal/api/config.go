package api

import "time"

// DefaultBaseURL is the hosted 12 Weeks API.
const DefaultBaseURL = "https://one-ano-em-12-semanas-api.onrender.com/api"

// Config holds transport settings for the API client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns a Config pointing at the hosted API with a 10s
// request timeout.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		Timeout:   10 * time.Second,
		UserAgent: "twelveweeks-cli",
	}
}
