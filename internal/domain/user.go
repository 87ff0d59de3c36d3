package domain

import "time"

type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session is the locally persisted login state.
type Session struct {
	Token   string
	User    User
	SavedAt time.Time
}
