package authimpl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/auth"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/repositories/credential"
	mock_credential "github.com/orgball2608/elixir/internal/repositories/credential/mocks"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	impl  *AuthImpl
	creds *mock_credential.MockRepository
	clock *clockwork.FakeClock
	path  string
}

func newFixture(t *testing.T) *fixture {
	creds := mock_credential.NewMockRepository(gomock.NewController(t))
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.Issuer = "elixir"
	cfg.Auth.TokenTTL = time.Hour
	cfg.Auth.SessionPath = filepath.Join(t.TempDir(), "state", "session.json")
	cfg.Auth.BcryptCost = bcrypt.MinCost

	impl, err := New(Opts{Credentials: creds, Config: cfg, Logger: logger.NewNop(), Clock: clock})
	require.NoError(t, err)

	return &fixture{impl: impl, creds: creds, clock: clock, path: cfg.Auth.SessionPath}
}

func (f *fixture) record() *[]domain.AuthEvent {
	var events []domain.AuthEvent
	f.impl.OnAuthStateChange(func(ev domain.AuthEvent) { events = append(events, ev) })
	return &events
}

func TestSignUp_PersistsSessionAndEmits(t *testing.T) {
	f := newFixture(t)
	events := f.record()

	var stored domain.Credential
	f.creds.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c domain.Credential) error {
		stored = c
		return nil
	})

	id, err := f.impl.SignUp(context.Background(), " A@X.com ", "secret1")
	require.NoError(t, err)
	require.False(t, id.IsZero())

	assert.Equal(t, "a@x.com", stored.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))

	current, err := f.impl.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, id, current)

	require.Len(t, *events, 1)
	assert.Equal(t, domain.AuthEvent{Kind: domain.SignedIn, Identity: id}, (*events)[0])
}

func TestSignUp_Rejections(t *testing.T) {
	f := newFixture(t)

	_, err := f.impl.SignUp(context.Background(), "not-an-email", "secret1")
	assert.ErrorIs(t, err, auth.ErrInvalidEmail)

	_, err = f.impl.SignUp(context.Background(), "a@x.com", "short")
	assert.ErrorIs(t, err, auth.ErrWeakPassword)

	f.creds.EXPECT().Create(gomock.Any(), gomock.Any()).Return(credential.ErrAlreadyExists)
	_, err = f.impl.SignUp(context.Background(), "a@x.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	_, err = f.impl.CurrentSession(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestSignIn(t *testing.T) {
	f := newFixture(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	f.creds.EXPECT().GetByEmail(gomock.Any(), "a@x.com").
		Return(&domain.Credential{UserID: "u1", Email: "a@x.com", PasswordHash: string(hash)}, nil).Times(2)
	f.creds.EXPECT().GetByEmail(gomock.Any(), "b@x.com").Return(nil, credential.ErrNotFound)

	_, err = f.impl.SignIn(context.Background(), "a@x.com", "wrong-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.impl.SignIn(context.Background(), "b@x.com", "secret1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	id, err := f.impl.SignIn(context.Background(), "A@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.Identity("u1"), id)
}

func TestSignOut_ClearsSession(t *testing.T) {
	f := newFixture(t)
	f.creds.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.impl.SignUp(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)
	events := f.record()

	require.NoError(t, f.impl.SignOut(context.Background()))
	require.NoError(t, f.impl.SignOut(context.Background()))

	_, err = os.Stat(f.path)
	assert.True(t, os.IsNotExist(err))

	_, err = f.impl.CurrentSession(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoSession)
	require.Len(t, *events, 2)
	assert.Equal(t, domain.SignedOut, (*events)[0].Kind)
}

func TestCurrentSession_Expired(t *testing.T) {
	f := newFixture(t)
	f.creds.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.impl.SignUp(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)

	_, err = f.impl.CurrentSession(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestCurrentSession_CorruptFile(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(f.path), 0o700))
	require.NoError(t, os.WriteFile(f.path, []byte("{garbage"), 0o600))

	_, err := f.impl.CurrentSession(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestUnsubscribeStopsEvents(t *testing.T) {
	f := newFixture(t)

	calls := 0
	sub := f.impl.OnAuthStateChange(func(domain.AuthEvent) { calls++ })
	require.NoError(t, f.impl.SignOut(context.Background()))

	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, f.impl.SignOut(context.Background()))

	assert.Equal(t, 1, calls)
}
