package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/auth"
	mock_auth "github.com/orgball2608/elixir/internal/auth/mocks"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/repositories/profile"
	mock_profile "github.com/orgball2608/elixir/internal/repositories/profile/mocks"
	"github.com/orgball2608/elixir/internal/session"
	apperrors "github.com/orgball2608/elixir/pkg/errors"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	auth     *mock_auth.MockClient
	profiles *mock_profile.MockRepository
	store    *session.Store
	emit     auth.Listener
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		auth:     mock_auth.NewMockClient(ctrl),
		profiles: mock_profile.NewMockRepository(ctrl),
	}

	f.auth.EXPECT().OnAuthStateChange(gomock.Any()).DoAndReturn(func(l auth.Listener) auth.Subscription {
		f.emit = l
		return mock_auth.NewMockSubscription(ctrl)
	})
	f.auth.EXPECT().CurrentSession(gomock.Any()).Return(domain.Identity(""), auth.ErrNoSession)

	log := logger.NewNop()
	f.store = session.New(f.auth, log)
	f.store.Start(context.Background())
	f.svc = New(f.auth, f.profiles, clockwork.NewFakeClockAt(now), log)
	return f
}

func TestSignUp_CreatesEmptyProfileAndSignsIn(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().SignUp(gomock.Any(), "a@x.com", "secret1").
		DoAndReturn(func(context.Context, string, string) (domain.Identity, error) {
			f.emit(domain.AuthEvent{Kind: domain.SignedIn, Identity: "u1"})
			return "u1", nil
		})
	f.profiles.EXPECT().Create(gomock.Any(), domain.Profile{
		UserID:    "u1",
		Username:  "alice",
		Bio:       "",
		AvatarURL: "",
		CreatedAt: now,
	}).Return(nil)

	id, err := f.svc.SignUp(context.Background(), SignUpInput{
		Email:           "a@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Username:        "alice",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Identity("u1"), id)

	current, ok := f.store.Identity()
	require.True(t, ok)
	assert.Equal(t, id, current)
}

func TestSignUp_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SignUp(context.Background(), SignUpInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret2", Username: "alice"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = f.svc.SignUp(context.Background(), SignUpInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1", Username: "  "})
	assert.ErrorIs(t, err, ErrUsernameRequired)
}

func TestSignUp_DuplicateAccount(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().SignUp(gomock.Any(), "a@x.com", "secret1").Return(domain.Identity(""), auth.ErrEmailTaken)

	_, err := f.svc.SignUp(context.Background(), SignUpInput{Email: "a@x.com", Password: "secret1", ConfirmPassword: "secret1", Username: "alice"})

	require.ErrorIs(t, err, auth.ErrEmailTaken)
	assert.Equal(t, apperrors.CodeAuth, apperrors.GetCode(err))
	_, ok := f.store.Identity()
	assert.False(t, ok)
}

func TestSignIn_BadCredentials(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().SignIn(gomock.Any(), "a@x.com", "nope").Return(domain.Identity(""), auth.ErrInvalidCredentials)

	_, err := f.svc.SignIn(context.Background(), "a@x.com", "nope")

	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, auth.ErrInvalidCredentials.Error(), apperrors.GetMessage(err))
}

func TestSignOut(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().SignOut(gomock.Any()).Return(errors.New("disk"))
	assert.Error(t, f.svc.SignOut(context.Background()))

	f.auth.EXPECT().SignOut(gomock.Any()).Return(nil)
	assert.NoError(t, f.svc.SignOut(context.Background()))
}

func TestViewProfile(t *testing.T) {
	f := newFixture(t)

	f.profiles.EXPECT().GetByUserID(gomock.Any(), domain.Identity("u2")).Return(&domain.Profile{UserID: "u2", Username: "bob"}, nil)
	p, err := f.svc.ViewProfile(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.Username)

	f.profiles.EXPECT().GetByUserID(gomock.Any(), domain.Identity("u3")).Return(nil, profile.ErrNotFound)
	_, err = f.svc.ViewProfile(context.Background(), "u3")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSignUp_ProfileFailureSignsOut(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().SignUp(gomock.Any(), "a@x.com", "secret1").
		DoAndReturn(func(context.Context, string, string) (domain.Identity, error) {
			f.emit(domain.AuthEvent{Kind: domain.SignedIn, Identity: "u1"})
			return "u1", nil
		})
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	f.auth.EXPECT().SignOut(gomock.Any()).DoAndReturn(func(context.Context) error {
		f.emit(domain.AuthEvent{Kind: domain.SignedOut})
		return nil
	})

	id, err := f.svc.SignUp(context.Background(), SignUpInput{
		Email:           "a@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Username:        "alice",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeQuery, apperrors.GetCode(err))
	assert.Equal(t, domain.Identity("u1"), id)
	_, ok := f.store.Identity()
	assert.False(t, ok)
}

func TestSignIn_CreatesMissingProfile(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().SignIn(gomock.Any(), "Alice@X.com", "secret1").Return(domain.Identity("u1"), nil)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), domain.Identity("u1")).Return(nil, profile.ErrNotFound)
	f.profiles.EXPECT().Create(gomock.Any(), domain.Profile{
		UserID:    "u1",
		Username:  "alice",
		CreatedAt: now,
	}).Return(nil)

	id, err := f.svc.SignIn(context.Background(), "Alice@X.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, domain.Identity("u1"), id)
}

func TestSignIn_ExistingProfileUntouched(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().SignIn(gomock.Any(), "a@x.com", "secret1").Return(domain.Identity("u1"), nil)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), domain.Identity("u1")).Return(&domain.Profile{UserID: "u1", Username: "alice"}, nil)

	id, err := f.svc.SignIn(context.Background(), "a@x.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, domain.Identity("u1"), id)
}

func TestSignIn_ProfileStillMissingSignsOut(t *testing.T) {
	f := newFixture(t)

	f.auth.EXPECT().SignIn(gomock.Any(), "a@x.com", "secret1").Return(domain.Identity("u1"), nil)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), domain.Identity("u1")).Return(nil, profile.ErrNotFound)
	f.profiles.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	f.auth.EXPECT().SignOut(gomock.Any()).Return(nil)

	id, err := f.svc.SignIn(context.Background(), "a@x.com", "secret1")

	require.Error(t, err)
	assert.True(t, id.IsZero())
	assert.Equal(t, apperrors.CodeQuery, apperrors.GetCode(err))
}
