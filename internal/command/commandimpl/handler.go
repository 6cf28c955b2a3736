package commandimpl

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/observability"
	apperrors "github.com/orgball2608/elixir/pkg/errors"
)

var errRateLimited = apperrors.New(apperrors.CodeRateLimited, "Too many requests, slow down a little.")

func (c *CommandImpl) HandleCommand(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.Config.Telegram.Timeout

	updates := c.Telegram.GetUpdatesChan(u)
	c.Logger.Info("Command handler started, listening for updates.")

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Command handler shutting down.")
			c.Telegram.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				c.Logger.Warn("Telegram updates channel closed unexpectedly.")
				return errors.New("telegram updates channel closed")
			}
			if update.Message == nil {
				continue
			}

			go func(msg *tgbotapi.Message) {
				defer func() {
					if r := recover(); r != nil {
						c.Logger.Error("Panic recovered while processing an update", "panic", r, "stack", string(debug.Stack()))
					}
				}()

				if err := c.processMessage(ctx, msg); err != nil {
					c.Logger.Error("Error processing command", "error", err)
				}
			}(update.Message)
		}
	}
}

func (c *CommandImpl) processMessage(ctx context.Context, msg *tgbotapi.Message) error {
	name, args, ok := commandOf(msg)
	if !ok {
		return nil
	}
	chatID := msg.Chat.ID

	// An unset owner matches nobody.
	if owner := c.Config.Telegram.User; owner == 0 || msg.From == nil || msg.From.ID != owner {
		c.Logger.Warn("Ignoring command from stranger", "chatID", chatID, "command", name)
		_, err := c.Telegram.SendMessage(chatID, "This bot is private.")
		return err
	}

	if !c.Limiter.Allow(chatID) {
		return c.replyError(chatID, errRateLimited)
	}

	observability.CommandsTotal.WithLabelValues(name).Inc()
	c.Logger.Info("Command received", "command", name)

	if timeout := c.Config.App.CommandTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return c.processCommand(ctx, msg, name, args)
}

func (c *CommandImpl) processCommand(ctx context.Context, msg *tgbotapi.Message, name, args string) error {
	chatID := msg.Chat.ID

	switch name {
	case "start", "help":
		_, err := c.Telegram.SendMessage(chatID, helpMessage)
		return err
	case "signup":
		return c.handleSignUp(ctx, chatID, args)
	case "login":
		return c.handleLogin(ctx, chatID, args)
	case "logout":
		return c.handleLogout(ctx, chatID)
	case "feed":
		return c.handleFeed(ctx, chatID)
	case "user":
		return c.handleUser(ctx, chatID, args)
	case "me":
		return c.handleMe(ctx, chatID)
	case "like":
		return c.handleLike(ctx, chatID, args)
	case "post":
		return c.handlePost(ctx, msg, args)
	case "bio":
		return c.handleBio(ctx, msg, args)
	default:
		_, err := c.Telegram.SendMessage(chatID, "Unknown command. Type /help to see the list of available commands.")
		return err
	}
}

// commandOf reads a command from the text, or from the caption of a photo.
func commandOf(msg *tgbotapi.Message) (name, args string, ok bool) {
	if msg.IsCommand() {
		return msg.Command(), strings.TrimSpace(msg.CommandArguments()), true
	}
	if len(msg.Photo) == 0 || !strings.HasPrefix(msg.Caption, "/") {
		return "", "", false
	}

	head, rest, _ := strings.Cut(msg.Caption[1:], " ")
	head, _, _ = strings.Cut(head, "@")
	if head == "" {
		return "", "", false
	}
	return strings.ToLower(head), strings.TrimSpace(rest), true
}

// viewer waits for the session to settle and returns who is signed in,
// or the zero identity.
func (c *CommandImpl) viewer(ctx context.Context) (domain.Identity, error) {
	s, err := c.Session.Wait(ctx)
	if err != nil {
		return "", err
	}
	return s.Identity, nil
}

// photoOf downloads the largest size of the photo attached to msg, if any.
func (c *CommandImpl) photoOf(ctx context.Context, msg *tgbotapi.Message) (*domain.Upload, error) {
	if len(msg.Photo) == 0 {
		return nil, nil
	}
	largest := msg.Photo[len(msg.Photo)-1]
	return c.Telegram.DownloadFile(ctx, largest.FileID, largest.FileUniqueID+".jpg")
}

func (c *CommandImpl) reply(chatID int64, text string) error {
	_, err := c.Telegram.SendMessage(chatID, text)
	return err
}

func (c *CommandImpl) replyError(chatID int64, err error) error {
	switch {
	case apperrors.IsAuthRequired(err):
		return c.reply(chatID, loginPrompt)
	case apperrors.GetCode(err) == apperrors.CodeRateLimited:
		return c.reply(chatID, apperrors.GetMessage(err))
	case apperrors.IsNotFound(err):
		return c.reply(chatID, "🔍 "+apperrors.GetMessage(err))
	case errors.Is(err, context.DeadlineExceeded):
		return c.reply(chatID, "⌛ The backend took too long to answer, please try again.")
	default:
		return c.reply(chatID, "❌ "+apperrors.GetMessage(err))
	}
}
