package commandimpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/orgball2608/elixir/internal/account"
)

func (c *CommandImpl) handleSignUp(ctx context.Context, chatID int64, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 4 {
		return c.reply(chatID, "Usage: /signup <email> <password> <confirm password> <username>")
	}

	id, err := c.Accounts.SignUp(ctx, account.SignUpInput{
		Email:           fields[0],
		Password:        fields[1],
		ConfirmPassword: fields[2],
		Username:        fields[3],
	})
	if err != nil {
		if id.IsZero() {
			return c.replyError(chatID, err)
		}
		c.Logger.Error("Sign-up left account without profile", "user_id", id, "error", err)
		return c.reply(chatID, "Your account was created but the profile could not be saved. Sign in with /login to finish setting it up.")
	}

	return c.reply(chatID, fmt.Sprintf("🎉 Welcome to Elixir, %s! You are now signed in.", fields[3]))
}

func (c *CommandImpl) handleLogin(ctx context.Context, chatID int64, args string) error {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return c.reply(chatID, "Usage: /login <email> <password>")
	}

	if _, err := c.Accounts.SignIn(ctx, fields[0], fields[1]); err != nil {
		return c.replyError(chatID, err)
	}
	return c.reply(chatID, "✅ Signed in. Try /feed.")
}

func (c *CommandImpl) handleLogout(ctx context.Context, chatID int64) error {
	if err := c.Accounts.SignOut(ctx); err != nil {
		return c.replyError(chatID, err)
	}
	return c.reply(chatID, "👋 Signed out.")
}
