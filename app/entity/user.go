package entity

import (
	"database/sql"
	"time"
)

type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmailConfirmation is keyed by its user: at most one row per account,
// created lazily on the first confirmation-email send. ConfirmedAt stays
// unset until the user verifies the code; once set it is never cleared.
type EmailConfirmation struct {
	UserID      uint64
	Code        string
	ExpiresAt   time.Time
	ConfirmedAt sql.NullTime
}

func (c *EmailConfirmation) IsConfirmed() bool {
	return c.ConfirmedAt.Valid
}

type AuthToken struct {
	ID        uint64
	UserID    uint64
	Token     string
	CreatedAt time.Time
}
