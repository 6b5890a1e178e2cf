package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/fjod/shopfront/internal/api"
	"github.com/fjod/shopfront/internal/store"
)

// ErrNotAuthorized means the credentials were accepted by the API but the
// account's role is not allowed on this console. It is deliberately
// distinct from an authentication failure.
var ErrNotAuthorized = errors.New("this account is not authorized for this console")

// AuthAPI is the slice of the API client the session context needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Me(ctx context.Context, token string) (*api.User, error)
}

// Context holds the authenticated user and bearer token. Token and user
// are always set together or cleared together. An optional required role
// turns it into the admin variant: transport-level login success is not
// enough, the role must match or the session is torn down.
type Context struct {
	mu           sync.Mutex
	api          AuthAPI
	st           store.Store
	requiredRole string

	user  *api.User
	token string
}

type Option func(*Context)

// WithRequiredRole rejects sessions whose user role differs. Used by the
// admin console with "admin".
func WithRequiredRole(role string) Option {
	return func(c *Context) { c.requiredRole = role }
}

func New(a AuthAPI, st store.Store, opts ...Option) *Context {
	c := &Context{api: a, st: st}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a token, applies the role gate, and
// persists the token. API failures pass through with the server's message.
func (c *Context) Login(ctx context.Context, email, password string) error {
	resp, err := c.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if c.requiredRole != "" && resp.User.Role != c.requiredRole {
		return ErrNotAuthorized
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = &resp.User
	c.token = resp.AccessToken

	data, err := json.Marshal(resp.AccessToken)
	if err != nil {
		return err
	}
	if err := c.st.Set(ctx, store.SlotToken, data); err != nil {
		// in-memory session still works; it just won't survive a restart
		log.Printf("persist session token: %v", err)
	}
	return nil
}

// Logout clears the session locally. The server is not called.
func (c *Context) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked(ctx)
}

// Restore hydrates a persisted token and validates it against the
// identity endpoint. A rejected or stale token is cleared silently: an
// expired session is steady-state behavior, not an error.
func (c *Context) Restore(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.st.Get(ctx, store.SlotToken)
	if err != nil {
		return
	}
	var token string
	if err := json.Unmarshal(data, &token); err != nil || token == "" {
		log.Printf("discarding corrupt token slot")
		c.clearLocked(ctx)
		return
	}

	user, err := c.api.Me(ctx, token)
	if err != nil {
		log.Printf("persisted session rejected, logging out: %v", err)
		c.clearLocked(ctx)
		return
	}
	if c.requiredRole != "" && user.Role != c.requiredRole {
		c.clearLocked(ctx)
		return
	}

	c.user = user
	c.token = token
}

func (c *Context) clearLocked(ctx context.Context) {
	c.user = nil
	c.token = ""
	if err := c.st.Delete(ctx, store.SlotToken); err != nil {
		log.Printf("clear session token: %v", err)
	}
}

// User returns the current user, if authenticated.
func (c *Context) User() (*api.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil, false
	}
	u := *c.user
	return &u, true
}

// Token returns the bearer token, or "" in guest mode.
func (c *Context) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Context) Authenticated() bool {
	return c.Token() != ""
}
