package commandimpl

import (
	"testing"

	"github.com/orgball2608/elixir/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRenderPost(t *testing.T) {
	p := domain.Post{
		ID:       12,
		Text:     "hello (world).",
		AuthorID: "u1",
		Likes:    make([]domain.Identity, 1500),
		Author:   &domain.AuthorSummary{UserID: "u1", Username: "alice_b"},
	}

	assert.Equal(t, "*\\#12* · @alice\\_b\nhello \\(world\\)\\.\n❤️ 1,500", renderPost(p))
}

func TestRenderPost_LiveEntryWithoutAuthor(t *testing.T) {
	p := domain.Post{ID: 3, Text: "x", AuthorID: "0123456789abcdef", ImageURL: "http://h/a.png"}

	assert.Equal(t, "*\\#3* · user 01234567\nx\n🖼 http://h/a\\.png\n❤️ 0", renderPost(p))
}

func TestRenderFeed(t *testing.T) {
	posts := []domain.Post{{ID: 3, AuthorID: "a"}, {ID: 2, AuthorID: "a"}, {ID: 1, AuthorID: "a"}}

	out := renderFeed("Latest posts", posts, 2)

	assert.Contains(t, out, "*Latest posts*")
	assert.Contains(t, out, "\\#3")
	assert.Contains(t, out, "\\#2")
	assert.NotContains(t, out, "\\#1*")
	assert.Contains(t, out, "\\.\\.\\.and 1 older posts")

	assert.Contains(t, renderFeed("Empty", nil, 10), "No posts yet\\.")
}
