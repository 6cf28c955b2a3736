package authimpl

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/auth"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/repositories/credential"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/logger"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

type Opts struct {
	fx.In

	Credentials credential.Repository
	Config      *config.Config
	Logger      logger.Logger
	Clock       clockwork.Clock
}

type AuthImpl struct {
	credentials credential.Repository
	tokens      *tokenIssuer
	sessions    *sessionFile
	bcryptCost  int
	logger      logger.Logger

	mu        sync.Mutex
	listeners map[uint64]auth.Listener
	nextID    uint64
}

func New(opts Opts) (*AuthImpl, error) {
	log := opts.Logger.WithComponent("Auth")

	secret := []byte(opts.Config.Auth.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("crypto/rand: %w", err)
		}
		log.Warn("AUTH_JWT_SECRET not set, sessions will not survive a restart")
	}

	cost := opts.Config.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &AuthImpl{
		credentials: opts.Credentials,
		tokens: &tokenIssuer{
			secret: secret,
			issuer: opts.Config.Auth.Issuer,
			ttl:    opts.Config.Auth.TokenTTL,
			clock:  opts.Clock,
		},
		sessions:   &sessionFile{path: opts.Config.Auth.SessionPath},
		bcryptCost: cost,
		logger:     log,
		listeners:  make(map[uint64]auth.Listener),
	}, nil
}

var _ auth.Client = (*AuthImpl)(nil)

func (a *AuthImpl) SignUp(ctx context.Context, email, password string) (domain.Identity, error) {
	email = auth.NormalizeEmail(email)
	if err := auth.ValidateCredentials(email, password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	id := domain.Identity(uuid.NewString())
	err = a.credentials.Create(ctx, domain.Credential{
		UserID:       id,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, credential.ErrAlreadyExists) {
			return "", auth.ErrEmailTaken
		}
		return "", fmt.Errorf("registration failed: %w", err)
	}

	a.logger.Info("User registered", "user_id", id)

	if err := a.startSession(id); err != nil {
		return "", err
	}
	return id, nil
}

func (a *AuthImpl) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	cred, err := a.credentials.GetByEmail(ctx, auth.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return "", auth.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", auth.ErrInvalidCredentials
	}

	a.logger.Info("User signed in", "user_id", cred.UserID)

	if err := a.startSession(cred.UserID); err != nil {
		return "", err
	}
	return cred.UserID, nil
}

func (a *AuthImpl) SignOut(_ context.Context) error {
	if err := a.sessions.clear(); err != nil {
		return err
	}
	a.emit(domain.AuthEvent{Kind: domain.SignedOut})
	return nil
}

func (a *AuthImpl) CurrentSession(_ context.Context) (domain.Identity, error) {
	token, err := a.sessions.load()
	if err != nil {
		return "", err
	}
	return a.tokens.verify(token)
}

func (a *AuthImpl) OnAuthStateChange(listener auth.Listener) auth.Subscription {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.listeners[id] = listener

	return &subscription{unsubscribe: func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}}
}

func (a *AuthImpl) startSession(id domain.Identity) error {
	token, err := a.tokens.issue(id)
	if err != nil {
		return fmt.Errorf("failed to issue session token: %w", err)
	}
	if err := a.sessions.save(token); err != nil {
		return err
	}
	a.emit(domain.AuthEvent{Kind: domain.SignedIn, Identity: id})
	return nil
}

// emit calls listeners outside the lock so they may unsubscribe themselves.
func (a *AuthImpl) emit(ev domain.AuthEvent) {
	a.mu.Lock()
	listeners := make([]auth.Listener, 0, len(a.listeners))
	for _, l := range a.listeners {
		listeners = append(listeners, l)
	}
	a.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

type subscription struct {
	once        sync.Once
	unsubscribe func()
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.unsubscribe)
}
