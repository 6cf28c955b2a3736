package profileedit

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/repositories/profile"
	"github.com/orgball2608/elixir/internal/storage"
	"github.com/orgball2608/elixir/pkg/config"
	"github.com/orgball2608/elixir/pkg/errors"
	"github.com/orgball2608/elixir/pkg/logger"
	"go.uber.org/fx"
)

var ErrAuthRequired = errors.New(errors.CodeAuthRequired, "login required to edit your profile")

// Outcome of an update. AvatarErr is set when the new avatar could not be
// uploaded; the rest of the update still went through with the old avatar.
type Outcome struct {
	Profile   domain.Profile
	AvatarErr error
}

type Opts struct {
	fx.In

	Profiles profile.Repository
	Storage  storage.Client
	Config   *config.Config
	Clock    clockwork.Clock
	Logger   logger.Logger
}

// Editor edits the signed-in user's profile and keeps the last known copy of it.
type Editor struct {
	profiles profile.Repository
	storage  storage.Client
	bucket   string
	clock    clockwork.Clock
	logger   logger.Logger

	mu   sync.RWMutex
	view *domain.Profile
}

func New(opts Opts) *Editor {
	return &Editor{
		profiles: opts.Profiles,
		storage:  opts.Storage,
		bucket:   opts.Config.Storage.Bucket,
		clock:    opts.Clock,
		logger:   opts.Logger.WithComponent("ProfileEditor"),
	}
}

func (e *Editor) Load(ctx context.Context, id domain.Identity) (*domain.Profile, error) {
	if id.IsZero() {
		return nil, ErrAuthRequired
	}

	p, err := e.profiles.GetByUserID(ctx, id)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, errors.WrapWithCode(err, errors.CodeNotFound, "profile not found")
		}
		return nil, errors.WrapWithCode(err, errors.CodeQuery, "failed to load profile")
	}

	e.setView(*p)
	return p, nil
}

// View returns the cached profile from the last Load or Update.
func (e *Editor) View() (domain.Profile, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.view == nil {
		return domain.Profile{}, false
	}
	return *e.view, true
}

// Current returns id's profile from the view, loading it when the view holds
// someone else or nothing.
func (e *Editor) Current(ctx context.Context, id domain.Identity) (domain.Profile, error) {
	if current, ok := e.View(); ok && current.UserID == id {
		return current, nil
	}
	p, err := e.Load(ctx, id)
	if err != nil {
		return domain.Profile{}, err
	}
	return *p, nil
}

// Update stores bio and, if given, a new avatar.
func (e *Editor) Update(ctx context.Context, id domain.Identity, bio string, avatar *domain.Upload) (*Outcome, error) {
	if id.IsZero() {
		return nil, ErrAuthRequired
	}

	current, err := e.Current(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &Outcome{}
	avatarURL := current.AvatarURL
	if avatar != nil {
		key := storage.ObjectKey(id.String(), e.clock.Now())
		if err := e.storage.Upload(ctx, e.bucket, key, avatar.Data, avatar.ContentType); err != nil {
			e.logger.Warn("Avatar upload failed, keeping previous avatar", "user_id", id, "error", err)
			out.AvatarErr = errors.WrapWithCode(err, errors.CodeUpload, "failed to upload avatar")
		} else {
			avatarURL = e.storage.PublicURL(e.bucket, key)
		}
	}

	err = e.profiles.Update(ctx, id, profile.Update{Bio: bio, AvatarURL: avatarURL})
	if err != nil {
		e.logger.Error("Failed to update profile", "user_id", id, "error", err)
		return nil, errors.WrapWithCode(err, errors.CodeQuery, "failed to update profile")
	}

	current.Bio = bio
	current.AvatarURL = avatarURL
	e.setView(current)

	out.Profile = current
	return out, nil
}

func (e *Editor) setView(p domain.Profile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.view = &p
}
