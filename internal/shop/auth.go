// Package shop contains the client-side application services: auth flow,
// catalog, cart controller, order history and the root coordinator.
package shop

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/and161185/shopcart/internal/backend"
	"github.com/and161185/shopcart/internal/errs"
	"github.com/and161185/shopcart/internal/model"
	"github.com/and161185/shopcart/internal/session"
)

// Mode selects between authenticating an existing account and creating one.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

// AuthFlow drives login and signup against the backend and hands the
// resulting token to the session.
type AuthFlow struct {
	api  backend.API
	sess *session.Session
	log  *zap.Logger

	mode atomic.Value // Mode
	busy atomic.Bool
}

// NewAuthFlow constructs an AuthFlow starting in login mode.
func NewAuthFlow(api backend.API, sess *session.Session, log *zap.Logger) *AuthFlow {
	a := &AuthFlow{api: api, sess: sess, log: log}
	a.mode.Store(ModeLogin)
	return a
}

// Mode returns the current flow mode.
func (a *AuthFlow) Mode() Mode { return a.mode.Load().(Mode) }

// SetMode switches between login and signup. Switching always clears any
// existing session so a previous user's credential never leaks into a new
// attempt.
func (a *AuthFlow) SetMode(m Mode) {
	if err := a.sess.Clear(); err != nil {
		a.log.Warn("clear session on mode switch", zap.Error(err))
	}
	a.mode.Store(m)
}

// Submit runs one authentication attempt. In signup mode it creates the
// account first and only proceeds to login if creation succeeded. Empty
// username or password (after trimming) fails with errs.ErrValidation before
// any network call. Only one submission may be in flight at a time; overlap
// fails with errs.ErrBusy.
func (a *AuthFlow) Submit(ctx context.Context, username, password string) error {
	if !a.busy.CompareAndSwap(false, true) {
		return errs.ErrBusy
	}
	defer a.busy.Store(false)

	// Start fresh: a stale token must not ride along on the auth requests.
	if err := a.sess.Clear(); err != nil {
		a.log.Warn("clear session before submit", zap.Error(err))
	}

	creds := model.Credentials{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
	}
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("username and password are required: %w", errs.ErrValidation)
	}

	if a.Mode() == ModeSignup {
		if err := a.api.CreateUser(ctx, creds); err != nil {
			return fmt.Errorf("signup: %w", err)
		}
		a.log.Info("account created", zap.String("username", creds.Username))
	}

	token, err := a.api.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := a.sess.Set(token); err != nil {
		a.log.Warn("persist session token", zap.Error(err))
	}
	a.log.Info("session established", zap.String("username", creds.Username))
	return nil
}
