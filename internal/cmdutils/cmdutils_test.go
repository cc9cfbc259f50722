package cmdutils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firasabed78/culinary--academy/internal/cmdutils"
	"github.com/firasabed78/culinary--academy/internal/config"
	"github.com/firasabed78/culinary--academy/internal/domain"
	"github.com/firasabed78/culinary--academy/internal/guard"
	"github.com/firasabed78/culinary--academy/internal/serviceerr"
	"github.com/firasabed78/culinary--academy/internal/session"
)

// platformFake is a minimal stand-in for the academy backend. Setting
// revoked makes every authenticated endpoint answer 401, as a server
// does after a token expires.
type platformFake struct {
	revoked atomic.Bool
}

func (p *platformFake) handler(t *testing.T) http.Handler {
	t.Helper()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/auth/login" {
			writeJSON(w, http.StatusOK, domain.Token{AccessToken: "issued-token", TokenType: "bearer"})
			return
		}

		if p.revoked.Load() || r.Header.Get("Authorization") != "Bearer issued-token" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}

		switch r.URL.Path {
		case "/api/v1/auth/me":
			writeJSON(w, http.StatusOK, domain.User{ID: 1, Email: "chef@example.com", Role: domain.RoleStudent, IsActive: true})
		case "/api/v1/enrollments":
			writeJSON(w, http.StatusOK, []domain.Enrollment{})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
}

func bootstrapApp(t *testing.T, baseURL string) *cmdutils.App {
	t.Helper()
	t.Setenv("ACADEMY_API_BASE_URL", baseURL)
	t.Setenv("ACADEMY_SESSION_STATE_DIR", t.TempDir())
	t.Setenv("ACADEMY_LOG_LEVEL", "error")

	app, err := cmdutils.Bootstrap(t.Context(), "")
	require.NoError(t, err)
	return app
}

func TestApp_SessionExpiryDemotesEverywhere(t *testing.T) {
	fake := &platformFake{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	app := bootstrapApp(t, srv.URL)

	require.NoError(t, app.Sessions.SignIn(t.Context(), "chef@example.com", "secret"))
	require.NoError(t, app.RequireAuth(t.Context(), "/courses"))

	_, stored := app.Creds.Get()
	assert.True(t, stored)

	// the server revokes the token; the next authenticated call of any
	// kind cleans up the whole session
	fake.revoked.Store(true)

	_, err := app.API.ListMyEnrollments(t.Context(), domain.PageParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, serviceerr.ErrUnauthorized)

	snap := app.Sessions.Snapshot()
	assert.Equal(t, session.StatusAnonymous, snap.Status)
	assert.Nil(t, snap.Identity)

	_, stored = app.Creds.Get()
	assert.False(t, stored, "the stale credential must be erased")

	decision := app.Nav.RequireAuth(snap, "/courses")
	assert.Equal(t, guard.Redirect, decision.Kind)
	assert.Error(t, app.RequireAuth(t.Context(), "/courses"))
}

func TestApp_CredentialSurvivesRestart(t *testing.T) {
	fake := &platformFake{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	app := bootstrapApp(t, srv.URL)
	require.NoError(t, app.Sessions.SignIn(t.Context(), "chef@example.com", "secret"))

	// a second bootstrap over the same state directory plays the part of
	// a process restart
	restarted, err := cmdutils.Bootstrap(t.Context(), "")
	require.NoError(t, err)

	restarted.Sessions.Resolve(t.Context())
	snap := restarted.Sessions.Snapshot()
	require.Equal(t, session.StatusAuthenticated, snap.Status)
	assert.Equal(t, "chef@example.com", snap.Identity.Email)
}

func TestInitLogger_RejectsUnknownSettings(t *testing.T) {
	assert.Error(t, cmdutils.InitLogger(config.Logger{Level: "loud", Format: "text"}))
	assert.Error(t, cmdutils.InitLogger(config.Logger{Level: "info", Format: "xml"}))
}
