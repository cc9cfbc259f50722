package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firasabed78/culinary--academy/internal/api"
	"github.com/firasabed78/culinary--academy/internal/config"
	credstoremock "github.com/firasabed78/culinary--academy/internal/credstore/mock"
	"github.com/firasabed78/culinary--academy/internal/domain"
	"github.com/firasabed78/culinary--academy/internal/serviceerr"
)

func testConfig(baseURL string) config.API {
	return config.API{
		BaseURL:        baseURL,
		RequestTimeout: 2 * time.Second,
		CourseCacheTTL: time.Minute,
	}
}

func newClient(t *testing.T, srv *httptest.Server, tokens api.TokenSource, opts ...api.Option) *api.Client {
	t.Helper()
	client, err := api.NewClient(testConfig(srv.URL), tokens, opts...)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Login(t *testing.T) {
	t.Run("success posts the OAuth2 form", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/v1/auth/login", r.URL.Path)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "chef@example.com", r.PostForm.Get("username"))
			assert.Equal(t, "secret", r.PostForm.Get("password"))
			assert.Empty(t, r.Header.Get("Authorization"), "login must not carry a bearer header")
			assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

			writeJSON(w, http.StatusOK, domain.Token{AccessToken: "tok", TokenType: "bearer"})
		}))
		defer srv.Close()

		client := newClient(t, srv, credstoremock.NewInMemStore())
		token, err := client.Login(t.Context(), "chef@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "tok", token.AccessToken)
	})

	t.Run("401 maps to invalid credentials with the server detail", func(t *testing.T) {
		hookFired := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
		}))
		defer srv.Close()

		client := newClient(t, srv, credstoremock.NewInMemStore(),
			api.WithOnUnauthorized(func() { hookFired = true }))

		_, err := client.Login(t.Context(), "chef@example.com", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, serviceerr.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, serviceerr.ErrUnauthorized)
		assert.Equal(t, "Incorrect email or password", serviceerr.DetailOrFallback(err, ""))
		assert.False(t, hookFired, "a rejected login is not a stale session")
	})
}

func TestClient_Me(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer stored-token", r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, domain.User{ID: 7, Email: "chef@example.com", Role: domain.RoleInstructor})
	}))
	defer srv.Close()

	client := newClient(t, srv, credstoremock.NewInMemStore(credstoremock.WithToken("stored-token")))
	user, err := client.Me(t.Context())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleInstructor, user.Role)
}

func TestClient_UnauthorizedHook(t *testing.T) {
	var hookCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	client := newClient(t, srv, credstoremock.NewInMemStore(credstoremock.WithToken("expired")),
		api.WithOnUnauthorized(func() { hookCalls.Add(1) }))

	// an unauthorized response from any authenticated endpoint fires
	// the cleanup hook
	_, err := client.ListCourses(t.Context(), domain.PageParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, serviceerr.ErrUnauthorized)
	assert.Equal(t, int32(1), hookCalls.Load())

	_, err = client.GetPayment(t.Context(), 3)
	require.Error(t, err)
	assert.Equal(t, int32(2), hookCalls.Load())
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		detail string
		want   error
	}{
		{"validation", http.StatusBadRequest, "Password must contain at least one number", serviceerr.ErrValidation},
		{"unprocessable", http.StatusUnprocessableEntity, "value is not a valid integer", serviceerr.ErrValidation},
		{"not found", http.StatusNotFound, "Course not found", serviceerr.ErrNotFound},
		{"conflict", http.StatusConflict, "Already enrolled", serviceerr.ErrConflict},
		{"server error", http.StatusInternalServerError, "", serviceerr.ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if tt.detail != "" {
					writeJSON(w, tt.status, map[string]string{"detail": tt.detail})
				} else {
					w.WriteHeader(tt.status)
				}
			}))
			defer srv.Close()

			client := newClient(t, srv, credstoremock.NewInMemStore(credstoremock.WithToken("t")))
			_, err := client.GetCourse(t.Context(), 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			if tt.detail != "" {
				assert.Equal(t, tt.detail, serviceerr.DetailOrFallback(err, ""))
			}
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client, err := api.NewClient(testConfig(srv.URL), credstoremock.NewInMemStore())
	require.NoError(t, err)

	_, err = client.ListCourses(t.Context(), domain.PageParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, serviceerr.ErrNetwork)
}

func TestClient_ListCourses(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("skip") == "10" {
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
		}
		// list endpoints answer with a bare JSON array
		writeJSON(w, http.StatusOK, []domain.Course{{ID: 42, Title: "Sourdough Fundamentals"}})
	}))
	defer srv.Close()

	client := newClient(t, srv, credstoremock.NewInMemStore(credstoremock.WithToken("t")))

	page, err := client.ListCourses(t.Context(), domain.PageParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Sourdough Fundamentals", page.Items[0].Title)
	assert.Equal(t, 1, page.Total)

	// the unpaginated first page is served from cache
	_, err = client.ListCourses(t.Context(), domain.PageParams{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())

	// paginated reads bypass the cache
	page, err = client.ListCourses(t.Context(), domain.PageParams{Skip: 10, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
	assert.Equal(t, 10, page.Skip)
	assert.Equal(t, 5, page.Limit)
}

func TestClient_Enrollments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/enrollments" && r.Method == http.MethodPost:
			var in domain.EnrollmentCreate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, 7, in.StudentID)
			assert.Equal(t, 42, in.CourseID)
			writeJSON(w, http.StatusOK, domain.Enrollment{
				ID: 3, StudentID: in.StudentID, CourseID: in.CourseID,
				Status: domain.EnrollmentPending, PaymentStatus: domain.PaymentPending,
			})
		case r.URL.Path == "/api/v1/enrollments" && r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, []domain.Enrollment{{ID: 3, CourseID: 42}})
		case r.URL.Path == "/api/v1/enrollments/3" && r.Method == http.MethodPut:
			var in struct {
				Status domain.EnrollmentStatus `json:"status"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, domain.EnrollmentCancelled, in.Status)
			writeJSON(w, http.StatusOK, domain.Enrollment{ID: 3, CourseID: 42, Status: in.Status})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newClient(t, srv, credstoremock.NewInMemStore(credstoremock.WithToken("t")))

	enrollment, err := client.CreateEnrollment(t.Context(), domain.EnrollmentCreate{StudentID: 7, CourseID: 42})
	require.NoError(t, err)
	assert.Equal(t, domain.EnrollmentPending, enrollment.Status)

	page, err := client.ListMyEnrollments(t.Context(), domain.PageParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	// cancellation is a status update, the platform has no delete route
	require.NoError(t, client.CancelEnrollment(t.Context(), 3))
}

func TestClient_UploadDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/documents", r.URL.Path)
		assert.Equal(t, "resume", r.URL.Query().Get("document_type"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cv.pdf", header.Filename)
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "pdf bytes", string(content))

		writeJSON(w, http.StatusOK, domain.Document{
			ID: 1, Type: domain.DocumentResume, FileName: header.Filename,
		})
	}))
	defer srv.Close()

	client := newClient(t, srv, credstoremock.NewInMemStore(credstoremock.WithToken("t")))

	doc, err := client.UploadDocument(t.Context(), api.DocumentUpload{
		Type:     domain.DocumentResume,
		FileName: "cv.pdf",
		Content:  strings.NewReader("pdf bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentResume, doc.Type)
}

func TestClient_BaseURLWithPathPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/academy/api/v1/auth/me", r.URL.Path)
		writeJSON(w, http.StatusOK, domain.User{ID: 1, Email: "chef@example.com"})
	}))
	defer srv.Close()

	client, err := api.NewClient(testConfig(srv.URL+"/academy"), credstoremock.NewInMemStore(credstoremock.WithToken("t")))
	require.NoError(t, err)

	_, err = client.Me(t.Context())
	require.NoError(t, err)
}

func TestClient_Notifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/notifications":
			assert.Equal(t, "true", r.URL.Query().Get("unread_only"))
			writeJSON(w, http.StatusOK, []domain.Notification{{ID: 1, Title: "Enrollment confirmed"}})
		case "/api/v1/notifications/unread-count":
			writeJSON(w, http.StatusOK, map[string]int{"count": 3})
		case "/api/v1/notifications/1/read":
			require.Equal(t, http.MethodPut, r.Method)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := newClient(t, srv, credstoremock.NewInMemStore(credstoremock.WithToken("t")))

	page, err := client.ListNotifications(t.Context(), true, domain.PageParams{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	count, err := client.UnreadNotificationCount(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, client.MarkNotificationRead(t.Context(), 1))
}
