package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/observability"
	"github.com/orgball2608/elixir/internal/storage"
	mock_storage "github.com/orgball2608/elixir/internal/storage/mocks"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T, deps map[string]observability.Pinger) (*httptest.Server, *mock_storage.MockClient) {
	objects := mock_storage.NewMockClient(gomock.NewController(t))
	srv := httptest.NewServer(NewRouter(objects, deps, logger.NewNop()))
	t.Cleanup(srv.Close)
	return srv, objects
}

func get(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body), res.Header
}

func TestPublicObject(t *testing.T) {
	srv, objects := newServer(t, nil)

	objects.EXPECT().Download(gomock.Any(), "taskimages", "cat.png-1740830400000").Return(&domain.Object{
		Bucket:      "taskimages",
		Key:         "cat.png-1740830400000",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	}, nil)

	status, body, header := get(t, srv.URL+"/storage/v1/object/public/taskimages/cat.png-1740830400000")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "png-bytes", body)
	assert.Equal(t, "image/png", header.Get("Content-Type"))
}

func TestPublicObject_Missing(t *testing.T) {
	srv, objects := newServer(t, nil)

	objects.EXPECT().Download(gomock.Any(), "taskimages", "nope").Return(nil, storage.ErrNotFound)
	objects.EXPECT().Download(gomock.Any(), "taskimages", "broken").Return(nil, errors.New("db down"))

	status, _, _ := get(t, srv.URL+"/storage/v1/object/public/taskimages/nope")
	assert.Equal(t, http.StatusNotFound, status)

	status, _, _ = get(t, srv.URL+"/storage/v1/object/public/taskimages/broken")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestHealth(t *testing.T) {
	healthy := observability.PingerFunc(func(context.Context) error { return nil })
	down := observability.PingerFunc(func(context.Context) error { return errors.New("down") })

	srv, _ := newServer(t, map[string]observability.Pinger{"postgres": healthy})
	status, body, _ := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)

	status, _, _ = get(t, srv.URL+"/readyz")
	assert.Equal(t, http.StatusOK, status)

	srv, _ = newServer(t, map[string]observability.Pinger{"redis": down})
	status, body, _ = get(t, srv.URL+"/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "redis unavailable", body)

	status, _, _ = get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
}
