package commandimpl

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/elixir/internal/feed"
)

func (c *CommandImpl) handleMe(ctx context.Context, chatID int64) error {
	me, err := c.viewer(ctx)
	if err != nil {
		return c.replyError(chatID, err)
	}
	if me.IsZero() {
		return c.reply(chatID, loginPrompt)
	}

	p, err := c.Profiles.Load(ctx, me)
	if err != nil {
		return c.replyError(chatID, err)
	}
	if _, err := c.Telegram.SendMarkdown(chatID, renderProfile(*p)); err != nil {
		return err
	}

	return c.showFeed(ctx, chatID, feed.Author(me), "Your posts")
}

func (c *CommandImpl) handleBio(ctx context.Context, msg *tgbotapi.Message, bio string) error {
	chatID := msg.Chat.ID

	me, err := c.viewer(ctx)
	if err != nil {
		return c.replyError(chatID, err)
	}
	if me.IsZero() {
		return c.reply(chatID, loginPrompt)
	}

	if strings.TrimSpace(bio) == "" {
		if len(msg.Photo) == 0 {
			return c.reply(chatID, "Usage: /bio <text>, or send a photo captioned /bio to change only your avatar.")
		}
		current, err := c.Profiles.Current(ctx, me)
		if err != nil {
			return c.replyError(chatID, err)
		}
		bio = current.Bio
	}

	avatar, err := c.photoOf(ctx, msg)
	if err != nil {
		c.Logger.Warn("Failed to download avatar, keeping the old one", "error", err)
		avatar = nil
	}

	out, err := c.Profiles.Update(ctx, me, bio, avatar)
	if err != nil {
		return c.replyError(chatID, err)
	}

	if out.AvatarErr != nil {
		return c.reply(chatID, "✅ Bio updated, but the new avatar could not be uploaded. Your old avatar is kept.")
	}
	_, err = c.Telegram.SendMarkdown(chatID, renderProfile(out.Profile))
	return err
}
