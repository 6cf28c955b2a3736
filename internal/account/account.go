package account

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/auth"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/repositories/profile"
	"github.com/orgball2608/elixir/pkg/errors"
	"github.com/orgball2608/elixir/pkg/logger"
)

var (
	ErrPasswordMismatch = errors.New(errors.CodeValidation, "passwords do not match")
	ErrUsernameRequired = errors.New(errors.CodeValidation, "username is required")
)

type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Username        string
}

type Service struct {
	auth     auth.Client
	profiles profile.Repository
	clock    clockwork.Clock
	logger   logger.Logger
}

func New(client auth.Client, profiles profile.Repository, clock clockwork.Clock, log logger.Logger) *Service {
	return &Service{
		auth:     client,
		profiles: profiles,
		clock:    clock,
		logger:   log.WithComponent("Account"),
	}
}

// SignUp registers the account, which also signs it in, and creates its
// empty profile.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (domain.Identity, error) {
	if in.Password != in.ConfirmPassword {
		return "", ErrPasswordMismatch
	}
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return "", ErrUsernameRequired
	}

	id, err := s.auth.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return "", authError(err)
	}

	if err := s.createProfile(ctx, id, username); err != nil {
		// The next sign-in creates the missing row.
		s.logger.Error("Account created without profile", "user_id", id, "error", err)
		s.signOutQuietly(ctx, id)
		return id, errors.WrapWithCode(err, errors.CodeQuery, "failed to create profile")
	}

	s.logger.Info("Account created", "user_id", id, "username", username)
	return id, nil
}

// SignIn signs the account in and creates its profile if an earlier
// sign-up could not.
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	id, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return "", authError(err)
	}

	_, err = s.profiles.GetByUserID(ctx, id)
	switch {
	case err == nil:
		return id, nil
	case !errors.Is(err, profile.ErrNotFound):
		s.logger.Warn("Could not check profile after sign-in", "user_id", id, "error", err)
		return id, nil
	}

	username := usernameFromEmail(email)
	if err := s.createProfile(ctx, id, username); err != nil && !errors.Is(err, profile.ErrAlreadyExists) {
		s.logger.Error("Profile still missing after sign-in", "user_id", id, "error", err)
		s.signOutQuietly(ctx, id)
		return "", errors.WrapWithCode(err, errors.CodeQuery, "failed to create profile")
	}

	s.logger.Info("Created missing profile", "user_id", id, "username", username)
	return id, nil
}

func (s *Service) SignOut(ctx context.Context) error {
	if err := s.auth.SignOut(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeAuth, "failed to sign out")
	}
	return nil
}

func (s *Service) createProfile(ctx context.Context, id domain.Identity, username string) error {
	return s.profiles.Create(ctx, domain.Profile{
		UserID:    id,
		Username:  username,
		Bio:       "",
		AvatarURL: "",
		CreatedAt: s.clock.Now(),
	})
}

func (s *Service) signOutQuietly(ctx context.Context, id domain.Identity) {
	if err := s.auth.SignOut(ctx); err != nil {
		s.logger.Error("Failed to sign out account without profile", "user_id", id, "error", err)
	}
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(auth.NormalizeEmail(email), "@")
	if local == "" {
		return "user"
	}
	return local
}

// ViewProfile reads any user's profile.
func (s *Service) ViewProfile(ctx context.Context, id domain.Identity) (*domain.Profile, error) {
	p, err := s.profiles.GetByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, errors.WrapWithCode(err, errors.CodeNotFound, "profile not found")
		}
		return nil, errors.WrapWithCode(err, errors.CodeQuery, "failed to load profile")
	}
	return p, nil
}

// authError keeps the auth sentinel reachable through errors.Is.
func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		return errors.WrapWithCode(err, errors.CodeValidation, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrEmailTaken):
		return errors.WrapWithCode(err, errors.CodeAuth, err.Error())
	default:
		return errors.WrapWithCode(err, errors.CodeAuth, "authentication failed")
	}
}
