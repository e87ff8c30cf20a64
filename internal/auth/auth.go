package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Adeela565/ClickSafe/internal/config"
	"github.com/Adeela565/ClickSafe/internal/pkg/httputil"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

// ErrInvalidCredentials is returned by Login for a bad username or password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Principal is the authenticated caller of an admin request.
type Principal struct {
	Username  string
	SessionID string
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal set by RequireAuth, or nil.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// Manager authenticates the administrator and manages sessions.
type Manager struct {
	username   string
	hash       []byte
	secret     []byte
	cookieName string
	ttl        time.Duration
	secure     bool
	store      SessionStore
	now        func() time.Time
}

// NewManager builds a manager from config. A plaintext password is hashed
// once at startup; a configured bcrypt hash takes precedence.
func NewManager(cfg config.AuthConfig, store SessionStore) (*Manager, error) {
	m := &Manager{
		username:   cfg.Username,
		secret:     []byte(cfg.SessionSecret),
		cookieName: cfg.CookieName,
		ttl:        cfg.SessionTTL(),
		store:      store,
		now:        time.Now,
	}
	switch {
	case cfg.PasswordHash != "":
		m.hash = []byte(cfg.PasswordHash)
	case cfg.Password != "":
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		m.hash = h
	default:
		logger.Warn("no admin password configured; logins are disabled")
	}
	if len(m.secret) == 0 {
		logger.Warn("SECRET_KEY not set; session cookies are signed with a random key")
		id, err := generateSessionID()
		if err != nil {
			return nil, err
		}
		m.secret = []byte(id)
	}
	if m.cookieName == "" {
		m.cookieName = "clicksafe_session"
	}
	if m.ttl <= 0 {
		m.ttl = 12 * time.Hour
	}
	return m, nil
}

// SetSecureCookies marks the session cookie Secure (HTTPS deployments).
func (m *Manager) SetSecureCookies(secure bool) { m.secure = secure }

// Login checks credentials and creates a session.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	if m.hash == nil {
		return nil, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(m.hash, []byte(password))
	if !userOK || passErr != nil {
		return nil, ErrInvalidCredentials
	}

	id, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	now := m.now().UTC()
	s := &Session{ID: id, Username: username, CreatedAt: now, ExpiresAt: now.Add(m.ttl)}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Logout ends a session. Unknown ids are ignored.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return id + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (m *Manager) verify(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 {
		return "", false
	}
	id := value[:i]
	return id, hmac.Equal([]byte(m.sign(id)), []byte(value))
}

// Authenticate resolves the session cookie on r. It returns nil when the
// request carries no valid session.
func (m *Manager) Authenticate(r *http.Request) *Principal {
	c, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil
	}
	id, ok := m.verify(c.Value)
	if !ok {
		return nil
	}
	s, err := m.store.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			logger.Error("session lookup failed", "error", err.Error())
		}
		return nil
	}
	return &Principal{Username: s.Username, SessionID: s.ID}
}

// RequireAuth rejects requests without a valid session with 401 and puts
// the Principal on the context of the rest.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := m.Authenticate(r)
		if p == nil {
			httputil.Unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin accepts {"username","password"} and sets the session cookie.
func (m *Manager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	s, err := m.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		logger.Warn("admin login failed", "username", req.Username)
		httputil.Unauthorized(w, err.Error())
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    m.sign(s.ID),
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	logger.Info("admin logged in", "username", s.Username)
	httputil.OK(w, map[string]any{"authenticated": true, "username": s.Username, "expires_at": s.ExpiresAt})
}

// HandleLogout deletes the session and clears the cookie.
func (m *Manager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if p := m.Authenticate(r); p != nil {
		if err := m.Logout(r.Context(), p.SessionID); err != nil {
			logger.Error("logout failed", "error", err.Error())
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	httputil.OK(w, map[string]bool{"authenticated": false})
}

// HandleMe reports whether the caller is logged in.
func (m *Manager) HandleMe(w http.ResponseWriter, r *http.Request) {
	p := m.Authenticate(r)
	if p == nil {
		httputil.JSON(w, http.StatusUnauthorized, map[string]bool{"authenticated": false})
		return
	}
	httputil.OK(w, map[string]any{"authenticated": true, "username": p.Username})
}
