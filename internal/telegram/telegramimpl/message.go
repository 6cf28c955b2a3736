package telegramimpl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/pkg/logger"
)

var ErrEmptyFile = errors.New("received empty file")

// SendMessage sends a plain text message to a specific chat ID
func (tg *TelegramImpl) SendMessage(chatID int64, text string) (int, error) {
	return tg.send(tgbotapi.NewMessage(chatID, text))
}

// SendMarkdown sends a MarkdownV2 message to a specific chat ID
func (tg *TelegramImpl) SendMarkdown(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	msg.DisableWebPagePreview = true
	return tg.send(msg)
}

func (tg *TelegramImpl) send(msg tgbotapi.MessageConfig) (int, error) {
	sentMsg, err := tg.TgBot.Send(msg)
	if err != nil {
		tg.Logger.Error("Error sending message",
			"chatID", msg.ChatID,
			"error", err)
		return 0, fmt.Errorf("failed to send message: %w", err)
	}

	tg.Logger.Debug("Message sent",
		"chatID", msg.ChatID,
		"messageID", sentMsg.MessageID)
	return sentMsg.MessageID, nil
}

// NotifyOwner sends a MarkdownV2 message to the configured owner
func (tg *TelegramImpl) NotifyOwner(text string) {
	if _, err := tg.SendMarkdown(tg.Config.Telegram.User, text); err != nil {
		tg.Logger.Error("Error notifying owner",
			"userID", tg.Config.Telegram.User,
			"error", err)
	}
}

// SendPhotoByURL downloads an image and sends it to the chat. Stored
// objects are served by this process, which Telegram itself may not reach.
func (tg *TelegramImpl) SendPhotoByURL(ctx context.Context, chatID int64, url, caption string) error {
	media, err := tg.fetch(ctx, url)
	if err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "image", Bytes: media})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := tg.TgBot.Send(photo); err != nil {
		tg.Logger.Error("Error sending photo", "chatID", chatID, "url", url, "error", err)
		return fmt.Errorf("failed to send photo: %w", err)
	}
	return nil
}

// DownloadFile fetches a file that was sent to the bot
func (tg *TelegramImpl) DownloadFile(ctx context.Context, fileID, filename string) (*domain.Upload, error) {
	url, err := tg.TgBot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file %s: %w", fileID, err)
	}

	data, err := tg.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	return &domain.Upload{
		Filename:    filename,
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}

func (tg *TelegramImpl) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := tg.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer safeClose(resp.Body, tg.Logger)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download: status %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if tg.maxBytes > 0 {
		body = io.LimitReader(resp.Body, tg.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	return data, nil
}

// safeClose safely closes an io.ReadCloser and logs any errors
func safeClose(closer io.ReadCloser, logger logger.Logger) {
	if err := closer.Close(); err != nil {
		logger.Error("Error closing response body", "error", err)
	}
}
