// Package ui holds front-end view state for the user list: the root view
// that owns the in-memory users, the create form and the editable list.
// Renderers turn that state into text for the terminal client.
package ui

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-management-service/internal/client"
)

// Backend is the subset of the users API the views need.
type Backend interface {
	List(ctx context.Context) ([]client.User, error)
	Create(ctx context.Context, in client.UserInput) (*client.User, error)
	Update(ctx context.Context, id int64, in client.UserInput) (string, error)
	Delete(ctx context.Context, id int64) (string, error)
}

// Status exposes request progress, normally a *client.Hook.
type Status interface {
	Loading() bool
	Error() string
}

// RootView owns the list of users shown by every other view. The list is
// replaced wholesale after each successful mutation, never patched.
//
// Every successful mutation starts a new generation. Refreshes share a
// request only within one generation, so the reload after a write never
// reuses a list read that began before the write. A result from an older
// generation never replaces a newer one.
type RootView struct {
	api    Backend
	status Status
	log    *zap.Logger

	group singleflight.Group

	mu      sync.RWMutex
	users   []client.User
	gen     uint64 // bumped by every successful mutation
	applied uint64 // generation of the list in users
}

// NewRootView creates a RootView. Call Mount to load the initial list.
func NewRootView(api Backend, status Status, log *zap.Logger) *RootView {
	return &RootView{api: api, status: status, log: log}
}

// Mount loads the list for the first time.
func (v *RootView) Mount(ctx context.Context) error {
	return v.Refresh(ctx)
}

// Refresh re-fetches the list. Concurrent calls in the same generation
// share one request.
func (v *RootView) Refresh(ctx context.Context) error {
	v.mu.RLock()
	gen := v.gen
	v.mu.RUnlock()
	return v.refresh(ctx, gen)
}

func (v *RootView) refresh(ctx context.Context, gen uint64) error {
	res, err, shared := v.group.Do(strconv.FormatUint(gen, 10), func() (any, error) {
		return v.api.List(ctx)
	})
	if err != nil {
		v.log.Warn("failed to fetch users", zap.Error(err))
		return err
	}

	users := append([]client.User(nil), res.([]client.User)...)
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	v.mu.Lock()
	stale := gen < v.applied
	if !stale {
		v.users = users
		v.applied = gen
	}
	v.mu.Unlock()

	v.log.Debug("users refreshed",
		zap.Int("count", len(users)),
		zap.Uint64("generation", gen),
		zap.Bool("shared", shared),
		zap.Bool("stale", stale),
	)
	return nil
}

// mutated starts a new generation and reloads the list in it.
func (v *RootView) mutated(ctx context.Context) error {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.mu.Unlock()
	return v.refresh(ctx, gen)
}

// Users returns a copy of the current list, sorted by id.
func (v *RootView) Users() []client.User {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]client.User(nil), v.users...)
}

// AddUser creates a user and reloads the list on success.
func (v *RootView) AddUser(ctx context.Context, in client.UserInput) error {
	if _, err := v.api.Create(ctx, in); err != nil {
		return err
	}
	return v.mutated(ctx)
}

// UpdateUser updates a user and reloads the list on success.
func (v *RootView) UpdateUser(ctx context.Context, id int64, in client.UserInput) error {
	if _, err := v.api.Update(ctx, id, in); err != nil {
		return err
	}
	return v.mutated(ctx)
}

// DeleteUser deletes a user and reloads the list on success.
func (v *RootView) DeleteUser(ctx context.Context, id int64) error {
	if _, err := v.api.Delete(ctx, id); err != nil {
		return err
	}
	return v.mutated(ctx)
}

// Loading reports whether the latest request is in flight.
func (v *RootView) Loading() bool {
	if v.status == nil {
		return false
	}
	return v.status.Loading()
}

// Error returns the latest request error message, or "".
func (v *RootView) Error() string {
	if v.status == nil {
		return ""
	}
	return v.status.Error()
}
