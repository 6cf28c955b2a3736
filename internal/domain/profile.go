package domain

import "time"

type Profile struct {
	UserID    Identity  `json:"user_id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (p Profile) Summary() AuthorSummary {
	return AuthorSummary{
		UserID:    p.UserID,
		Username:  p.Username,
		AvatarURL: p.AvatarURL,
	}
}
