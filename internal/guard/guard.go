// Package guard gates navigation on the session state. RequireAuth
// protects authenticated-only surfaces, RequireAnonymous the sign-in
// and registration surfaces.
package guard

import (
	"sync"

	"github.com/firasabed78/culinary--academy/internal/session"
)

type DecisionKind int

const (
	// Wait means a revalidation or sign-in call is outstanding and
	// nothing may be admitted yet.
	Wait DecisionKind = iota
	Admit
	Redirect
)

func (k DecisionKind) String() string {
	switch k {
	case Admit:
		return "admit"
	case Redirect:
		return "redirect"
	default:
		return "wait"
	}
}

type Decision struct {
	Kind       DecisionKind
	RedirectTo string
}

// Navigator evaluates the two gates and carries the pending destination
// across a login redirect. The pending destination is in-memory only:
// it does not survive a process restart, by design.
type Navigator struct {
	loginPath   string
	landingPath string

	mu      sync.Mutex
	pending string
}

func NewNavigator(loginPath, landingPath string) *Navigator {
	return &Navigator{loginPath: loginPath, landingPath: landingPath}
}

// RequireAuth admits the guarded path once authenticated. While
// anonymous it redirects to the sign-in surface, recording the
// attempted path for the post-login redirect.
func (n *Navigator) RequireAuth(snap session.Snapshot, path string) Decision {
	if snap.Loading || snap.Status == session.StatusUnknown {
		return Decision{Kind: Wait}
	}
	if snap.Status == session.StatusAuthenticated {
		return Decision{Kind: Admit}
	}

	n.mu.Lock()
	n.pending = path
	n.mu.Unlock()

	return Decision{Kind: Redirect, RedirectTo: n.loginPath}
}

// RequireAnonymous admits the guarded path while anonymous. Once
// authenticated it redirects to the recorded pending destination, or to
// the default landing path when none was recorded this cycle.
func (n *Navigator) RequireAnonymous(snap session.Snapshot) Decision {
	if snap.Loading || snap.Status == session.StatusUnknown {
		return Decision{Kind: Wait}
	}
	if snap.Status == session.StatusAnonymous {
		return Decision{Kind: Admit}
	}

	return Decision{Kind: Redirect, RedirectTo: n.consumePending()}
}

// consumePending reads and clears the pending destination; it is valid
// for a single redirect round-trip.
func (n *Navigator) consumePending() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending == "" {
		return n.landingPath
	}
	dest := n.pending
	n.pending = ""
	return dest
}

// Pending exposes the recorded destination without consuming it.
func (n *Navigator) Pending() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending
}
