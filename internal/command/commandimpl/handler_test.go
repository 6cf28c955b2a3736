package commandimpl

import (
	"context"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/auth"
	mock_auth "github.com/orgball2608/elixir/internal/auth/mocks"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/feed"
	"github.com/orgball2608/elixir/internal/like"
	"github.com/orgball2608/elixir/internal/profileedit"
	"github.com/orgball2608/elixir/internal/ratelimit"
	"github.com/orgball2608/elixir/internal/realtime"
	mock_realtime "github.com/orgball2608/elixir/internal/realtime/mocks"
	"github.com/orgball2608/elixir/internal/repositories/post"
	mock_post "github.com/orgball2608/elixir/internal/repositories/post/mocks"
	"github.com/orgball2608/elixir/internal/repositories/profile"
	mock_profile "github.com/orgball2608/elixir/internal/repositories/profile/mocks"
	"github.com/orgball2608/elixir/internal/session"
	mock_storage "github.com/orgball2608/elixir/internal/storage/mocks"
	mock_telegram "github.com/orgball2608/elixir/internal/telegram/mocks"
	"github.com/orgball2608/elixir/pkg/config"
	apperrors "github.com/orgball2608/elixir/pkg/errors"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const owner int64 = 42

type fixture struct {
	cmd   *CommandImpl
	tg    *mock_telegram.MockClient
	posts *mock_post.MockRepository
	rt    *mock_realtime.MockClient
	emit  auth.Listener
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	log := logger.NewNop()

	f := &fixture{
		tg:    mock_telegram.NewMockClient(ctrl),
		posts: mock_post.NewMockRepository(ctrl),
		rt:    mock_realtime.NewMockClient(ctrl),
	}

	authClient := mock_auth.NewMockClient(ctrl)
	authClient.EXPECT().OnAuthStateChange(gomock.Any()).DoAndReturn(func(l auth.Listener) auth.Subscription {
		f.emit = l
		return mock_auth.NewMockSubscription(ctrl)
	})
	authClient.EXPECT().CurrentSession(gomock.Any()).Return(domain.Identity(""), auth.ErrNoSession)
	store := session.New(authClient, log)
	store.Start(context.Background())

	cfg := &config.Config{}
	cfg.Telegram.User = owner
	cfg.App.CommandTimeout = time.Second
	cfg.Feed.PageSize = 10

	f.cmd = New(Opts{
		Telegram: f.tg,
		Session:  store,
		Feeds:    feed.NewFactory(f.posts, f.rt, like.New(f.posts, log), log),
		Limiter:  ratelimit.NewInMemoryLimiter(1, time.Hour, 2, clockwork.NewFakeClock()),
		Logger:   log,
		Config:   cfg,
	})
	return f
}

func commandMessage(from int64, text string) *tgbotapi.Message {
	name, _, _ := strings.Cut(text, " ")
	return &tgbotapi.Message{
		From:     &tgbotapi.User{ID: from},
		Chat:     &tgbotapi.Chat{ID: from},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}
}

func TestCommandOf(t *testing.T) {
	name, args, ok := commandOf(commandMessage(owner, "/like 12"))
	require.True(t, ok)
	assert.Equal(t, "like", name)
	assert.Equal(t, "12", args)

	name, args, ok = commandOf(&tgbotapi.Message{
		Caption: "/Post@elixir_bot  sunset at the beach ",
		Photo:   []tgbotapi.PhotoSize{{FileID: "f1"}},
	})
	require.True(t, ok)
	assert.Equal(t, "post", name)
	assert.Equal(t, "sunset at the beach", args)

	_, _, ok = commandOf(&tgbotapi.Message{Text: "just chatting"})
	assert.False(t, ok)

	_, _, ok = commandOf(&tgbotapi.Message{Caption: "a photo", Photo: []tgbotapi.PhotoSize{{FileID: "f1"}}})
	assert.False(t, ok)
}

func TestProcessMessage_RejectsStrangers(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().SendMessage(int64(7), "This bot is private.").Return(1, nil)

	require.NoError(t, f.cmd.processMessage(context.Background(), commandMessage(7, "/feed")))
}

func TestProcessMessage_UnsetOwnerRejectsEveryone(t *testing.T) {
	f := newFixture(t)
	f.cmd.Config.Telegram.User = 0
	f.emit(domain.AuthEvent{Kind: domain.SignedIn, Identity: "me"})

	f.tg.EXPECT().SendMessage(int64(7), "This bot is private.").Return(1, nil)
	f.tg.EXPECT().SendMessage(int64(0), "This bot is private.").Return(2, nil)

	require.NoError(t, f.cmd.processMessage(context.Background(), commandMessage(7, "/post hijacked")))
	require.NoError(t, f.cmd.processMessage(context.Background(), commandMessage(0, "/post hijacked")))
}

func TestProcessMessage_RateLimited(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().SendMessage(owner, helpMessage).Return(1, nil).Times(2)
	f.tg.EXPECT().SendMessage(owner, "Too many requests, slow down a little.").Return(3, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.cmd.processMessage(context.Background(), commandMessage(owner, "/help")))
	}
}

func TestLike_SignedOutGetsLoginPrompt(t *testing.T) {
	f := newFixture(t)
	f.rt.EXPECT().Subscribe(gomock.Any(), feed.PostsTable, realtime.Insert, gomock.Any()).
		Return(mock_realtime.NewMockSubscription(gomock.NewController(t)), nil)
	f.posts.EXPECT().List(gomock.Any(), post.Filter{}).Return([]domain.Post{{ID: 5, AuthorID: "a"}}, nil)
	f.tg.EXPECT().SendMessage(owner, loginPrompt).Return(1, nil)

	require.NoError(t, f.cmd.processMessage(context.Background(), commandMessage(owner, "/like 5")))
}

func TestLike_SignedInReflectsCount(t *testing.T) {
	f := newFixture(t)
	f.emit(domain.AuthEvent{Kind: domain.SignedIn, Identity: "me"})

	f.rt.EXPECT().Subscribe(gomock.Any(), feed.PostsTable, realtime.Insert, gomock.Any()).
		Return(mock_realtime.NewMockSubscription(gomock.NewController(t)), nil)
	f.posts.EXPECT().List(gomock.Any(), post.Filter{}).Return([]domain.Post{{ID: 5, AuthorID: "a", Likes: []domain.Identity{"x"}}}, nil)
	f.posts.EXPECT().AddLike(gomock.Any(), int64(5), domain.Identity("me")).Return([]domain.Identity{"x", "me"}, nil)
	f.tg.EXPECT().SendMarkdown(owner, "❤️ Liked *\\#5*, now at 2 likes\\.").Return(1, nil)

	require.NoError(t, f.cmd.processMessage(context.Background(), commandMessage(owner, "/like #5")))

	p, ok := f.cmd.currentView().Get(5)
	require.True(t, ok)
	assert.Equal(t, 2, p.LikeCount())
}

func TestPost_SignedOutGetsLoginPrompt(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().SendMessage(owner, loginPrompt).Return(1, nil)

	require.NoError(t, f.cmd.processMessage(context.Background(), commandMessage(owner, "/post hello world")))
}

func TestOnLiveInsert_TextOnly(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().NotifyOwner(gomock.Any()).Do(func(text string) {
		assert.Contains(t, text, "*\\#10*")
		assert.Contains(t, text, "user u9")
	})

	f.cmd.onLiveInsert(domain.Post{ID: 10, AuthorID: "u9", Text: "hi"})
}

func TestReplyError_NotFound(t *testing.T) {
	f := newFixture(t)
	f.tg.EXPECT().SendMessage(owner, "🔍 profile not found").Return(1, nil)

	err := apperrors.WrapWithCode(profile.ErrNotFound, apperrors.CodeNotFound, "profile not found")
	require.NoError(t, f.cmd.replyError(owner, err))
}

func TestBio_PhotoWithoutTextKeepsBio(t *testing.T) {
	f := newFixture(t)
	f.emit(domain.AuthEvent{Kind: domain.SignedIn, Identity: "me"})

	ctrl := gomock.NewController(t)
	profiles := mock_profile.NewMockRepository(ctrl)
	objects := mock_storage.NewMockClient(ctrl)
	f.cmd.Config.Storage.Bucket = "taskimages"
	f.cmd.Profiles = profileedit.New(profileedit.Opts{
		Profiles: profiles,
		Storage:  objects,
		Config:   f.cmd.Config,
		Clock:    clockwork.NewFakeClock(),
		Logger:   logger.NewNop(),
	})

	profiles.EXPECT().GetByUserID(gomock.Any(), domain.Identity("me")).
		Return(&domain.Profile{UserID: "me", Username: "alice", Bio: "coffee first"}, nil)
	f.tg.EXPECT().DownloadFile(gomock.Any(), "big", "u2.jpg").
		Return(&domain.Upload{Filename: "u2.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")}, nil)
	objects.EXPECT().Upload(gomock.Any(), "taskimages", gomock.Any(), []byte("jpeg"), "image/jpeg").Return(nil)
	objects.EXPECT().PublicURL("taskimages", gomock.Any()).Return("http://cdn/me.jpg")
	profiles.EXPECT().Update(gomock.Any(), domain.Identity("me"), profile.Update{Bio: "coffee first", AvatarURL: "http://cdn/me.jpg"}).
		Return(nil)
	f.tg.EXPECT().SendMarkdown(owner, gomock.Any()).Return(1, nil)

	msg := &tgbotapi.Message{
		From:    &tgbotapi.User{ID: owner},
		Chat:    &tgbotapi.Chat{ID: owner},
		Caption: "/bio",
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", FileUniqueID: "u1"},
			{FileID: "big", FileUniqueID: "u2"},
		},
	}
	require.NoError(t, f.cmd.processMessage(context.Background(), msg))
}
