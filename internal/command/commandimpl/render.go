package commandimpl

import (
	"fmt"
	"strings"

	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/pkg/formatter"
)

const loginPrompt = "🔒 You need to be signed in for that. Use /login <email> <password> or /signup."

const helpMessage = `👋 Welcome to Elixir!

ACCOUNT:
/signup <email> <password> <confirm> <username> - Create an account.
/login <email> <password> - Sign in.
/logout - Sign out.

POSTS:
/feed - Latest posts from everyone, new ones are pushed to you live.
/user <user id> - Someone's profile and posts.
/like <post id> - Like a post from the feed you are looking at.
/post <text> - Publish a post. Send a photo with this as its caption to attach it.

PROFILE:
/me - Your profile and posts.
/bio <text> - Update your bio. Send a photo with this as its caption to change your avatar.`

const maxTextRunes = 500

func authorName(p domain.Post) string {
	if p.Author != nil && p.Author.Username != "" {
		return "@" + p.Author.Username
	}
	id := p.AuthorID.String()
	if len(id) > 8 {
		id = id[:8]
	}
	return "user " + id
}

func renderPost(p domain.Post) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*\\#%d* · %s\n", p.ID, formatter.EscapeMarkdownV2(authorName(p)))
	sb.WriteString(formatter.EscapeMarkdownV2(formatter.Truncate(p.Text, maxTextRunes)))
	sb.WriteString("\n")
	if p.ImageURL != "" {
		fmt.Fprintf(&sb, "🖼 %s\n", formatter.EscapeMarkdownV2(p.ImageURL))
	}
	fmt.Fprintf(&sb, "❤️ %s", formatter.EscapeMarkdownV2(formatter.FormatNumber(p.LikeCount())))
	return sb.String()
}

func renderFeed(title string, posts []domain.Post, limit int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n\n", formatter.EscapeMarkdownV2(title))

	if len(posts) == 0 {
		sb.WriteString(formatter.EscapeMarkdownV2("No posts yet."))
		return sb.String()
	}

	shown := posts
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for i, p := range shown {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(renderPost(p))
	}

	if hidden := len(posts) - len(shown); hidden > 0 {
		fmt.Fprintf(&sb, "\n\n_%s_", formatter.EscapeMarkdownV2(fmt.Sprintf("...and %s older posts", formatter.FormatNumber(hidden))))
	}
	return sb.String()
}

func renderNewPost(p domain.Post) string {
	return "🆕 *New post*\n" + renderPost(p)
}

func renderLiked(p domain.Post) string {
	return fmt.Sprintf("❤️ Liked *\\#%d*, now at %s likes\\.", p.ID, formatter.EscapeMarkdownV2(formatter.FormatNumber(p.LikeCount())))
}

func renderProfile(p domain.Profile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 *%s*\n", formatter.EscapeMarkdownV2("@"+p.Username))
	fmt.Fprintf(&sb, "id: `%s`\n", p.UserID)

	bio := p.Bio
	if bio == "" {
		bio = "No bio yet."
	}
	sb.WriteString(formatter.EscapeMarkdownV2(bio))

	if p.AvatarURL != "" {
		fmt.Fprintf(&sb, "\n🖼 %s", formatter.EscapeMarkdownV2(p.AvatarURL))
	}
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "\n%s", formatter.EscapeMarkdownV2("Joined "+p.CreatedAt.Format("Jan 2, 2006")))
	}
	return sb.String()
}
