package domain

import "time"

type Credential struct {
	UserID       Identity
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
