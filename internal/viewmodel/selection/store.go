// Package selection resolves and persists the active child profile so it
// survives restarts of the client.
package selection

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"babywords/internal/appctx"
	"babywords/internal/client"
	"babywords/internal/models"
)

// Cache keys. They are written and cleared together.
const (
	KeyProfileID    = "activeProfileId"
	KeyProfileName  = "activeProfileName"
	KeyProfilePhoto = "activeProfilePhoto"
)

var (
	// ErrNoUser is returned when there is no signed-in user
	ErrNoUser = errors.New("not signed in")
	// ErrNoProfiles is returned when the user has no profile to select
	ErrNoProfiles = errors.New("no baby profiles yet")
	// ErrNotFound is returned when a profile ID does not exist for the user
	ErrNotFound = errors.New("baby ID not found")
)

// Remote is the part of the remote store used to look up profiles
type Remote interface {
	ListBabies(ctx context.Context, userID string) ([]models.Baby, error)
	GetBaby(ctx context.Context, userID string, id int64) (*models.Baby, error)
}

// Policy picks the profile to activate when nothing is cached
type Policy func(babies []models.Baby) (models.Baby, bool)

// FirstProfile selects the first profile the server returned
func FirstProfile(babies []models.Baby) (models.Baby, bool) {
	if len(babies) == 0 {
		return models.Baby{}, false
	}
	return babies[0], true
}

// Option configures a Store
type Option func(*Store)

// WithPolicy replaces FirstProfile
func WithPolicy(p Policy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// Store owns the active profile. It is the only writer of the selection
// keys in the cache.
type Store struct {
	cache  Cache
	remote Remote
	policy Policy

	mu        sync.Mutex
	active    *appctx.Profile
	listeners map[int]func(*appctx.Profile)
	nextSub   int
}

// New creates a selection store
func New(cache Cache, remote Remote, opts ...Option) *Store {
	s := &Store{
		cache:     cache,
		remote:    remote,
		policy:    FirstProfile,
		listeners: make(map[int]func(*appctx.Profile)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers fn to be called whenever the active profile changes,
// with nil after Clear. Dependent views reset themselves from it. The
// returned function removes the subscription.
func (s *Store) OnChange(fn func(*appctx.Profile)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Active returns the active profile or nil
func (s *Store) Active() *appctx.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProfile(s.active)
}

// Resolve returns the active profile, preferring the cached selection and
// otherwise choosing one of the user's profiles with the store's policy.
func (s *Store) Resolve(ctx context.Context, user *appctx.User) (*appctx.Profile, error) {
	if user == nil || user.ID == "" {
		return nil, ErrNoUser
	}
	if cached := s.cached(); cached != nil {
		s.mu.Lock()
		s.active = cached
		s.mu.Unlock()
		return copyProfile(cached), nil
	}

	babies, err := s.remote.ListBabies(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list babies: %w", err)
	}
	baby, ok := s.policy(babies)
	if !ok {
		return nil, ErrNoProfiles
	}
	p := fromBaby(baby)
	if err := s.Select(p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Select makes p the active profile, persists it and notifies listeners
func (s *Store) Select(p appctx.Profile) error {
	values := map[string]string{
		KeyProfileID:    strconv.FormatInt(p.ID, 10),
		KeyProfileName:  p.Name,
		KeyProfilePhoto: p.PhotoURL,
	}
	for key, value := range values {
		if err := s.cache.Set(key, value); err != nil {
			return fmt.Errorf("failed to save selection: %w", err)
		}
	}

	s.mu.Lock()
	s.active = copyProfile(&p)
	s.mu.Unlock()
	s.notify(&p)
	return nil
}

// UseID looks up a profile by its numeric ID and selects it
func (s *Store) UseID(ctx context.Context, user *appctx.User, id int64) (*appctx.Profile, error) {
	if user == nil || user.ID == "" {
		return nil, ErrNoUser
	}
	baby, err := s.remote.GetBaby(ctx, user.ID, id)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up baby %d: %w", id, err)
	}
	p := fromBaby(*baby)
	if err := s.Select(p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Clear forgets the selection. It is called on logout.
func (s *Store) Clear() error {
	var errs []error
	for _, key := range []string{KeyProfileID, KeyProfileName, KeyProfilePhoto} {
		if err := s.cache.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}

	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
	s.notify(nil)
	return errors.Join(errs...)
}

func (s *Store) cached() *appctx.Profile {
	raw, ok := s.cache.Get(KeyProfileID)
	if !ok {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	name, _ := s.cache.Get(KeyProfileName)
	photo, _ := s.cache.Get(KeyProfilePhoto)
	return &appctx.Profile{ID: id, Name: name, PhotoURL: photo}
}

func (s *Store) notify(p *appctx.Profile) {
	s.mu.Lock()
	listeners := make([]func(*appctx.Profile), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(copyProfile(p))
	}
}

func fromBaby(b models.Baby) appctx.Profile {
	return appctx.Profile{ID: b.ID, Name: b.Name, PhotoURL: b.PhotoURL}
}

func copyProfile(p *appctx.Profile) *appctx.Profile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
