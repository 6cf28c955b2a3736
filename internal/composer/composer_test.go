package composer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/domain"
	mock_post "github.com/orgball2608/elixir/internal/repositories/post/mocks"
	mock_storage "github.com/orgball2608/elixir/internal/storage/mocks"
	"github.com/orgball2608/elixir/pkg/config"
	apperrors "github.com/orgball2608/elixir/pkg/errors"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newComposer(t *testing.T) (*Composer, *mock_post.MockRepository, *mock_storage.MockClient) {
	ctrl := gomock.NewController(t)
	posts := mock_post.NewMockRepository(ctrl)
	store := mock_storage.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Storage.Bucket = "taskimages"

	return New(Opts{
		Posts:   posts,
		Storage: store,
		Config:  cfg,
		Clock:   clockwork.NewFakeClockAt(now),
		Logger:  logger.NewNop(),
	}), posts, store
}

func TestCreatePost_WithoutImage(t *testing.T) {
	c, posts, _ := newComposer(t)

	posts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p domain.Post) (*domain.Post, error) {
		p.ID = 1
		return &p, nil
	})

	created, err := c.CreatePost(context.Background(), "hello world", nil, "u1")

	require.NoError(t, err)
	assert.Equal(t, "hello world", created.Text)
	assert.Equal(t, "", created.ImageURL)
	assert.Empty(t, created.Likes)
	assert.NotNil(t, created.Likes)
	assert.Equal(t, domain.Identity("u1"), created.AuthorID)
}

func TestCreatePost_WithImage(t *testing.T) {
	c, posts, store := newComposer(t)
	img := &domain.Upload{Filename: "cat pic.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	key := "cat_pic.png-" + "1740830400000"

	gomock.InOrder(
		store.EXPECT().Upload(gomock.Any(), "taskimages", key, img.Data, "image/png").Return(nil),
		store.EXPECT().PublicURL("taskimages", key).Return("http://cdn/taskimages/"+key),
		posts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p domain.Post) (*domain.Post, error) {
			p.ID = 2
			return &p, nil
		}),
	)

	created, err := c.CreatePost(context.Background(), "look", img, "u1")

	require.NoError(t, err)
	assert.Equal(t, "http://cdn/taskimages/"+key, created.ImageURL)
}

func TestCreatePost_UploadFailureCreatesNothing(t *testing.T) {
	c, _, store := newComposer(t)

	store.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("bucket full"))

	created, err := c.CreatePost(context.Background(), "look", &domain.Upload{Filename: "a.png", Data: []byte("x")}, "u1")

	require.Error(t, err)
	assert.Nil(t, created)
	assert.Equal(t, apperrors.CodeUpload, apperrors.GetCode(err))
}

func TestCreatePost_Rejections(t *testing.T) {
	c, _, _ := newComposer(t)

	_, err := c.CreatePost(context.Background(), "hi", nil, "")
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = c.CreatePost(context.Background(), "   ", nil, "u1")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestCreatePost_InsertFailure(t *testing.T) {
	c, posts, _ := newComposer(t)

	posts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := c.CreatePost(context.Background(), "hi", nil, "u1")

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeQuery, apperrors.GetCode(err))
}
