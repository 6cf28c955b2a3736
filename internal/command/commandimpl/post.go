package commandimpl

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (c *CommandImpl) handlePost(ctx context.Context, msg *tgbotapi.Message, text string) error {
	chatID := msg.Chat.ID
	if text == "" {
		return c.reply(chatID, "Usage: /post <text>, or send a photo with /post <text> as its caption.")
	}

	author, err := c.viewer(ctx)
	if err != nil {
		return c.replyError(chatID, err)
	}
	if author.IsZero() {
		return c.reply(chatID, loginPrompt)
	}

	image, err := c.photoOf(ctx, msg)
	if err != nil {
		c.Logger.Error("Failed to download photo", "error", err)
		return c.reply(chatID, "❌ Could not read your photo, the post was not created.")
	}

	created, err := c.Composer.CreatePost(ctx, text, image, author)
	if err != nil {
		return c.replyError(chatID, err)
	}

	return c.reply(chatID, fmt.Sprintf("✅ Post #%d created.", created.ID))
}
