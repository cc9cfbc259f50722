// Package session owns the client-side authentication state: who is
// signed in, synchronized with the single persisted credential.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	slogctx "github.com/veqryn/slog-context"

	"github.com/firasabed78/culinary--academy/internal/credstore"
	"github.com/firasabed78/culinary--academy/internal/domain"
	"github.com/firasabed78/culinary--academy/internal/serviceerr"
)

// Status is the single source-of-truth authentication state.
type Status int

const (
	// StatusUnknown holds only until the first Resolve settles.
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the session state. Identity is
// non-nil iff Status is StatusAuthenticated. ErrMessage carries the
// human-readable failure of the last sign-in or registration attempt
// and is cleared by the next attempt or by sign-out. Loading is true
// while a resolve, sign-in or registration call is outstanding; guards
// must treat it as overriding Status.
type Snapshot struct {
	Status     Status
	Identity   *domain.User
	Loading    bool
	ErrMessage string
}

// Authenticator is the slice of the API client the store depends on.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.Token, error)
	Register(ctx context.Context, in domain.UserCreate) (domain.User, error)
	Me(ctx context.Context) (domain.User, error)
}

const genericSignInError = "Unable to sign in. Please try again."
const genericRegisterError = "Unable to register. Please try again."

// Store is the single session instance of the process. All mutating
// operations claim a generation token at start; a result is applied
// only if no newer operation has claimed the state since, so a stale
// in-flight call can never overwrite a newer outcome.
type Store struct {
	api   Authenticator
	creds credstore.Store

	mu       sync.Mutex
	status   Status
	identity *domain.User
	errMsg   string
	loading  bool
	gen      uint64

	subs map[int]chan Snapshot
	next int

	resolve singleflight.Group
}

func NewStore(api Authenticator, creds credstore.Store) *Store {
	return &Store{
		api:    api,
		creds:  creds,
		status: StatusUnknown,
		subs:   make(map[int]chan Snapshot),
	}
}

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:     s.status,
		Loading:    s.loading,
		ErrMessage: s.errMsg,
	}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	return snap
}

// Subscribe returns a channel receiving a snapshot on every status
// transition, plus a cancel function. Publishing is latest-wins: a slow
// receiver observes the most recent state, not every intermediate one.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// replace the stale pending snapshot
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// begin claims the state for a new operation, superseding any call
// still in flight, and raises the loading flag.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.loading = true
	s.publishLocked()
	return s.gen
}

// finish applies fn only if the operation identified by gen has not
// been superseded. It reports whether fn was applied.
func (s *Store) finish(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.loading = false
	fn()
	s.publishLocked()
	return true
}

// Resolve performs the boot revalidation: it reads the persisted
// credential and, when one exists, asks the API who owns it. Any
// failure silently demotes to anonymous and erases the credential;
// revalidation failures are never surfaced as user-facing errors.
// Concurrent calls share a single flight.
func (s *Store) Resolve(ctx context.Context) {
	_, _, _ = s.resolve.Do("resolve", func() (any, error) {
		s.resolveOnce(ctx)
		return nil, nil
	})
}

func (s *Store) resolveOnce(ctx context.Context) {
	gen := s.begin()

	// no stored credential: anonymous without any network call
	if _, ok := s.creds.Get(); !ok {
		s.finish(gen, func() {
			s.status = StatusAnonymous
			s.identity = nil
		})
		return
	}

	// the transport attaches the stored credential as the bearer header
	identity, err := s.api.Me(ctx)
	if err != nil {
		// expired token and unreachable server both collapse to
		// anonymous; the distinction is deliberately not made
		s.finish(gen, func() {
			if err := s.creds.Remove(); err != nil {
				slogctx.Warn(ctx, "Failed to remove stale credential", "error", err)
			}
			s.status = StatusAnonymous
			s.identity = nil
		})
		slogctx.Debug(ctx, "Revalidation failed, continuing anonymous", "error", err)
		return
	}

	s.finish(gen, func() {
		s.status = StatusAuthenticated
		s.identity = &identity
		s.errMsg = ""
	})
	slogctx.Debug(ctx, "Revalidated session", "email", identity.Email, "role", identity.Role)
}

// SignIn authenticates with the platform and persists the credential.
// On failure the state settles anonymous with a human-readable error
// message and no credential remains persisted.
func (s *Store) SignIn(ctx context.Context, usernameOrEmail, password string) error {
	if usernameOrEmail == "" || password == "" {
		err := fmt.Errorf("%w: email and password are required", serviceerr.ErrValidation)
		s.failAuth(ctx, s.begin(), err, "Email and password are required.")
		return err
	}

	gen := s.begin()

	token, err := s.api.Login(ctx, usernameOrEmail, password)
	if err != nil {
		s.failAuth(ctx, gen, err, genericSignInError)
		return fmt.Errorf("authenticating: %w", err)
	}

	// persist before the identity fetch so a crash mid-flow still
	// allows a later revalidation attempt
	if !s.persistIfCurrent(ctx, gen, token.AccessToken) {
		slogctx.Debug(ctx, "Discarding superseded sign-in before persisting")
		return nil
	}

	identity, err := s.api.Me(ctx)
	if err != nil {
		s.failAuth(ctx, gen, err, genericSignInError)
		return fmt.Errorf("fetching identity: %w", err)
	}

	applied := s.finish(gen, func() {
		s.status = StatusAuthenticated
		s.identity = &identity
		s.errMsg = ""
	})
	if !applied {
		slogctx.Debug(ctx, "Discarding superseded sign-in result", "email", identity.Email)
		return nil
	}

	slogctx.Info(ctx, "Signed in", "email", identity.Email, "role", identity.Role)
	return nil
}

// persistIfCurrent writes the credential unless the call identified by
// gen has been superseded; a superseded call must not touch storage
// because a newer call owns it. It reports whether the call is still
// current.
func (s *Store) persistIfCurrent(ctx context.Context, gen uint64, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	if err := s.creds.Set(token); err != nil {
		slogctx.Warn(ctx, "Failed to persist credential", "error", err)
	}
	return true
}

// failAuth settles a failed sign-in or registration: anonymous with an
// error message, and no credential left behind. A settled anonymous
// state never keeps a persisted credential, or the next revalidation
// would resurrect the session the failure just ended. A superseded call
// must not touch the credential, because a newer call owns it by now.
func (s *Store) failAuth(ctx context.Context, gen uint64, err error, fallback string) {
	applied := s.finish(gen, func() {
		if rmErr := s.creds.Remove(); rmErr != nil {
			slogctx.Warn(ctx, "Failed to roll back credential", "error", rmErr)
		}
		s.status = StatusAnonymous
		s.identity = nil
		s.errMsg = serviceerr.DetailOrFallback(err, fallback)
	})
	if !applied {
		slogctx.Debug(ctx, "Discarding superseded auth failure", "error", err)
	}
}

// Register creates an account and, on success, signs in with the
// submitted credentials.
func (s *Store) Register(ctx context.Context, in domain.UserCreate) error {
	gen := s.begin()

	if _, err := s.api.Register(ctx, in); err != nil {
		s.failAuth(ctx, gen, err, genericRegisterError)
		return fmt.Errorf("registering: %w", err)
	}

	// auto-login claims its own generation, superseding this one
	return s.SignIn(ctx, in.Email, in.Password)
}

// SignOut erases the credential and settles anonymous. It is
// synchronous, idempotent and never fails; an outstanding identity
// fetch resolving afterwards is discarded by the generation guard.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if err := s.creds.Remove(); err != nil {
		slogctx.Warn(context.Background(), "Failed to remove credential on sign-out", "error", err)
	}
	s.status = StatusAnonymous
	s.identity = nil
	s.errMsg = ""
	s.loading = false
	s.publishLocked()
}

// HandleUnauthorized is the cross-cutting cleanup for an unauthorized
// response from any endpoint: erase the credential and force anonymous,
// without surfacing an error message.
func (s *Store) HandleUnauthorized() {
	s.SignOut()
}

// IdentityPatch carries the fields of a local profile edit. Nil fields
// are left untouched.
type IdentityPatch struct {
	Email          *string
	FirstName      *string
	LastName       *string
	Phone          *string
	Address        *string
	ProfilePicture *string
}

// UpdateIdentity merges a profile edit made elsewhere in the
// application into the current identity without a revalidation
// round-trip. It is a no-op while not authenticated.
func (s *Store) UpdateIdentity(patch IdentityPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusAuthenticated || s.identity == nil {
		return
	}

	if patch.Email != nil {
		s.identity.Email = *patch.Email
	}
	if patch.FirstName != nil {
		s.identity.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		s.identity.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		s.identity.Phone = *patch.Phone
	}
	if patch.Address != nil {
		s.identity.Address = *patch.Address
	}
	if patch.ProfilePicture != nil {
		s.identity.ProfilePicture = *patch.ProfilePicture
	}
	s.publishLocked()
}

// ErrNotAuthenticated is returned by helpers that need a signed-in
// user.
var ErrNotAuthenticated = errors.New("not authenticated")

// Identity returns the current identity or ErrNotAuthenticated.
func (s *Store) Identity() (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusAuthenticated || s.identity == nil {
		return domain.User{}, ErrNotAuthenticated
	}
	return *s.identity, nil
}
