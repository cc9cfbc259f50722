// Package sessionmock provides an in-memory Authenticator for tests.
package sessionmock

import (
	"context"
	"sync"

	"github.com/firasabed78/culinary--academy/internal/domain"
	"github.com/firasabed78/culinary--academy/internal/session"
)

type AuthenticatorOption func(*Authenticator)

// Authenticator is a configurable in-memory stand-in for the API
// client. The *Func overrides take precedence over the static values,
// which lets tests block or sequence individual calls.
type Authenticator struct {
	mu sync.Mutex

	user  domain.User
	token domain.Token

	loginErr, registerErr, meErr error

	loginFunc    func(ctx context.Context, username, password string) (domain.Token, error)
	meFunc       func(ctx context.Context) (domain.User, error)
	registerFunc func(ctx context.Context, in domain.UserCreate) (domain.User, error)

	loginCalls, registerCalls, meCalls int
}

func WithUser(u domain.User) AuthenticatorOption {
	return func(a *Authenticator) { a.user = u }
}
func WithToken(t domain.Token) AuthenticatorOption {
	return func(a *Authenticator) { a.token = t }
}
func WithLoginError(err error) AuthenticatorOption {
	return func(a *Authenticator) { a.loginErr = err }
}
func WithRegisterError(err error) AuthenticatorOption {
	return func(a *Authenticator) { a.registerErr = err }
}
func WithMeError(err error) AuthenticatorOption {
	return func(a *Authenticator) { a.meErr = err }
}
func WithLoginFunc(fn func(ctx context.Context, username, password string) (domain.Token, error)) AuthenticatorOption {
	return func(a *Authenticator) { a.loginFunc = fn }
}
func WithMeFunc(fn func(ctx context.Context) (domain.User, error)) AuthenticatorOption {
	return func(a *Authenticator) { a.meFunc = fn }
}
func WithRegisterFunc(fn func(ctx context.Context, in domain.UserCreate) (domain.User, error)) AuthenticatorOption {
	return func(a *Authenticator) { a.registerFunc = fn }
}

var _ = session.Authenticator(&Authenticator{})

func NewAuthenticator(opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		token: domain.Token{AccessToken: "test-token", TokenType: "bearer"},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

func (a *Authenticator) Login(ctx context.Context, username, password string) (domain.Token, error) {
	a.mu.Lock()
	a.loginCalls++
	fn := a.loginFunc
	token, err := a.token, a.loginErr
	a.mu.Unlock()

	if fn != nil {
		return fn(ctx, username, password)
	}
	if err != nil {
		return domain.Token{}, err
	}
	return token, nil
}

func (a *Authenticator) Register(ctx context.Context, in domain.UserCreate) (domain.User, error) {
	a.mu.Lock()
	a.registerCalls++
	fn := a.registerFunc
	user, err := a.user, a.registerErr
	a.mu.Unlock()

	if fn != nil {
		return fn(ctx, in)
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (a *Authenticator) Me(ctx context.Context) (domain.User, error) {
	a.mu.Lock()
	a.meCalls++
	fn := a.meFunc
	user, err := a.user, a.meErr
	a.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (a *Authenticator) LoginCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loginCalls
}

func (a *Authenticator) MeCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.meCalls
}

func (a *Authenticator) RegisterCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registerCalls
}
