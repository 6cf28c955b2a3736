package domain

import (
	"time"

	"github.com/samber/lo"
)

// Post is a feed entry. Author is the profile summary joined at fetch time;
// it is nil for rows that arrived through a realtime insert.
type Post struct {
	ID        int64
	Text      string
	ImageURL  string
	AuthorID  Identity
	Likes     []Identity
	Author    *AuthorSummary
	CreatedAt time.Time
}

type AuthorSummary struct {
	UserID    Identity
	Username  string
	AvatarURL string
}

// HasLike reports whether id is in the like set.
func (p Post) HasLike(id Identity) bool {
	return lo.Contains(p.Likes, id)
}

// WithLike returns a copy of p whose like set also contains id.
func (p Post) WithLike(id Identity) Post {
	likes := make([]Identity, 0, len(p.Likes)+1)
	likes = append(likes, p.Likes...)
	p.Likes = lo.Uniq(append(likes, id))
	return p
}

// WithLikes returns a copy of p carrying likes, deduplicated.
func (p Post) WithLikes(likes []Identity) Post {
	p.Likes = lo.Uniq(likes)
	return p
}

func (p Post) LikeCount() int {
	return len(p.Likes)
}

// PostRow is the posts table row as delivered by realtime notifications.
type PostRow struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	ImageURL  string    `json:"image_url"`
	AuthorID  string    `json:"author_id"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

func (r PostRow) Post() Post {
	return Post{
		ID:        r.ID,
		Text:      r.Text,
		ImageURL:  r.ImageURL,
		AuthorID:  Identity(r.AuthorID),
		Likes:     IdentitiesFromStrings(r.Likes),
		CreatedAt: r.CreatedAt,
	}
}
