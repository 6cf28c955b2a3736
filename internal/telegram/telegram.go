package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/elixir/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telegram.go -destination=mocks/mock.go
type Client interface {
	GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()

	SendMessage(chatID int64, text string) (int, error)
	// SendMarkdown sends text that is already MarkdownV2 escaped.
	SendMarkdown(chatID int64, text string) (int, error)
	// SendPhotoByURL fetches url and sends it as a photo with a MarkdownV2 caption.
	SendPhotoByURL(ctx context.Context, chatID int64, url, caption string) error
	// DownloadFile fetches a file the user sent to the bot.
	DownloadFile(ctx context.Context, fileID, filename string) (*domain.Upload, error)

	// NotifyOwner sends a MarkdownV2 message to the configured owner chat.
	NotifyOwner(text string)
}
