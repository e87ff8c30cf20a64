package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Adeela565/ClickSafe/internal/auth"
	"github.com/Adeela565/ClickSafe/internal/config"
)

func newManager(t *testing.T, cfg config.AuthConfig) *auth.Manager {
	t.Helper()
	if cfg.Username == "" {
		cfg.Username = "admin"
	}
	cfg.SessionSecret = "test-secret"
	cfg.CookieName = "sid"
	cfg.SessionTTLMinutes = 60
	m, err := auth.NewManager(cfg, auth.NewMemoryStore())
	require.NoError(t, err)
	return m
}

func TestLogin_PlaintextPassword(t *testing.T) {
	m := newManager(t, config.AuthConfig{Password: "hunter2"})
	ctx := context.Background()

	s, err := m.Login(ctx, "admin", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "admin", s.Username)
	assert.NotEmpty(t, s.ID)

	_, err = m.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	_, err = m.Login(ctx, "root", "hunter2")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	m := newManager(t, config.AuthConfig{PasswordHash: string(hash)})

	_, err = m.Login(context.Background(), "admin", "s3cret")
	assert.NoError(t, err)
}

func TestLogin_NoPasswordConfigured(t *testing.T) {
	m := newManager(t, config.AuthConfig{})
	_, err := m.Login(context.Background(), "admin", "")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRequireAuth_Flow(t *testing.T) {
	m := newManager(t, config.AuthConfig{Password: "hunter2"})

	protected := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := auth.PrincipalFrom(r.Context())
		require.NotNil(t, p)
		_, _ = w.Write([]byte(p.Username))
	}))

	// No cookie.
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bad credentials.
	rec = httptest.NewRecorder()
	m.HandleLogin(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"nope"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Good credentials.
	rec = httptest.NewRecorder()
	m.HandleLogin(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"admin","password":"hunter2"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "sid", cookie.Name)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())

	// Tampered cookie.
	req = httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: cookie.Value + "x"})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Logout invalidates the session.
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	m.HandleLogout(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	m.HandleMe(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
