package telegramimpl

import (
	"errors"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/orgball2608/elixir/internal/telegram"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type TelegramImpl struct {
	TgBot  *tgbotapi.BotAPI
	Logger logger.Logger
	Config *config.Config

	http     *http.Client
	maxBytes int64
}

// ErrNoOwner is returned when TELEGRAM_USER is unset. The bot serves a
// single account and must know whose chat that is.
var ErrNoOwner = errors.New("TELEGRAM_USER must be set to the owner's chat id")

func New(opts Opts) (*TelegramImpl, error) {
	if opts.Config.Telegram.User == 0 {
		return nil, ErrNoOwner
	}

	tgBot, err := tgbotapi.NewBotAPI(opts.Config.Telegram.Token)
	if err != nil {
		opts.Logger.Error("Error creating bot", "error", err)
		return nil, err
	}

	return &TelegramImpl{
		TgBot:    tgBot,
		Logger:   opts.Logger.WithComponent("Telegram"),
		Config:   opts.Config,
		http:     &http.Client{Timeout: 30 * time.Second},
		maxBytes: opts.Config.Storage.MaxUploadBytes,
	}, nil
}

var _ telegram.Client = (*TelegramImpl)(nil)

func (tg *TelegramImpl) GetUpdatesChan(u tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return tg.TgBot.GetUpdatesChan(u)
}

func (tg *TelegramImpl) StopReceivingUpdates() {
	tg.TgBot.StopReceivingUpdates()
}
