// Package notify polls the platform for unread notifications while a
// session is authenticated.
package notify

import (
	"context"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	slogctx "github.com/veqryn/slog-context"

	"github.com/firasabed78/culinary--academy/internal/domain"
	"github.com/firasabed78/culinary--academy/internal/session"
)

// Lister is the slice of the API client the poller depends on.
type Lister interface {
	ListNotifications(ctx context.Context, unreadOnly bool, p domain.PageParams) (domain.Page[domain.Notification], error)
}

// Handler receives each newly observed unread notification.
type Handler func(domain.Notification)

// Poller periodically fetches unread notifications. Polling is gated on
// the authenticated status: the ticker stops the instant the session
// leaves authenticated and resumes on re-authentication.
type Poller struct {
	api      Lister
	sessions *session.Store
	interval time.Duration
	handler  Handler

	seen *gocache.Cache
}

func NewPoller(api Lister, sessions *session.Store, interval, seenTTL time.Duration, handler Handler) *Poller {
	return &Poller{
		api:      api,
		sessions: sessions,
		interval: interval,
		handler:  handler,
		seen:     gocache.New(seenTTL, 2*seenTTL),
	}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	snaps, cancel := p.sessions.Subscribe()
	defer cancel()

	var tick <-chan time.Time
	var ticker *time.Ticker
	stop := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tick = nil
		}
	}
	defer stop()

	if p.sessions.Snapshot().Status == session.StatusAuthenticated {
		ticker = time.NewTicker(p.interval)
		tick = ticker.C
		p.poll(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-snaps:
			if snap.Status == session.StatusAuthenticated && ticker == nil {
				ticker = time.NewTicker(p.interval)
				tick = ticker.C
				p.poll(ctx)
			} else if snap.Status != session.StatusAuthenticated {
				stop()
			}
		case <-tick:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	page, err := p.api.ListNotifications(ctx, true, domain.PageParams{})
	if err != nil {
		// an unauthorized response already triggered the session
		// cleanup through the transport hook; everything else is a
		// transient poll miss
		slogctx.Debug(ctx, "Notification poll failed", "error", err)
		return
	}

	for _, n := range page.Items {
		key := strconv.Itoa(n.ID)
		if _, dup := p.seen.Get(key); dup {
			continue
		}
		p.seen.SetDefault(key, struct{}{})
		if p.handler != nil {
			p.handler(n)
		}
	}
}
