package model

import "time"

// User is the account behind a bearer token.
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *User) InitMeta() {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
}
