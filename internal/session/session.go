// Package session keeps per-browser state in one signed cookie.
//
// The cookie carries an HS256 JWT with the logged-in principal and any
// pending notices. A missing, tampered or expired cookie yields an empty
// anonymous session; nothing is stored server side.
package session

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alphabot-ai/myblog/internal/model"
)

const CookieName = "myblog_session"

// MaxNotices bounds pending notices; older ones are dropped first.
const MaxNotices = 8

var ErrSecretRequired = errors.New("session: secret required")

// Session is request scoped. Mutations only reach the browser once the
// Manager saves it.
type Session struct {
	principal *model.Principal
	notices   []model.Notice
	dirty     bool
}

func (s *Session) Principal() (model.Principal, bool) {
	if s.principal == nil {
		return model.Principal{}, false
	}
	return *s.principal, true
}

func (s *Session) LoggedIn() bool {
	return s.principal != nil
}

// Login attaches p to the session.
func (s *Session) Login(p model.Principal) {
	s.principal = &p
	s.dirty = true
}

// Clear drops the principal and every pending notice. Calling it on an empty
// session is a no-op.
func (s *Session) Clear() {
	if s.principal == nil && len(s.notices) == 0 {
		return
	}
	s.principal = nil
	s.notices = nil
	s.dirty = true
}

func (s *Session) AddNotice(category, message string) {
	s.notices = append(s.notices, model.Notice{Category: category, Message: message})
	if n := len(s.notices); n > MaxNotices {
		s.notices = append([]model.Notice(nil), s.notices[n-MaxNotices:]...)
	}
	s.dirty = true
}

// PopNotices returns pending notices and forgets them.
func (s *Session) PopNotices() []model.Notice {
	if len(s.notices) == 0 {
		return nil
	}
	out := s.notices
	s.notices = nil
	s.dirty = true
	return out
}

func (s *Session) Empty() bool {
	return s.principal == nil && len(s.notices) == 0
}

type claims struct {
	jwt.RegisteredClaims
	LoggedIn bool           `json:"logged_in,omitempty"`
	Username string         `json:"username,omitempty"`
	Notices  []model.Notice `json:"notices,omitempty"`
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, secure bool) (*Manager, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrSecretRequired
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}, nil
}

// Load decodes the session cookie of r.
func (m *Manager) Load(r *http.Request) *Session {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return &Session{}
	}
	var cl claims
	_, err = jwt.ParseWithClaims(c.Value, &cl, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))
	if err != nil {
		// Unreadable cookies are discarded on the next save.
		return &Session{dirty: true}
	}
	s := &Session{notices: cl.Notices}
	if cl.LoggedIn && cl.Username != "" {
		s.principal = &model.Principal{Username: cl.Username}
	}
	return s
}

// Save writes s back to the browser if it changed. It must run before the
// response header is written.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	if !s.dirty {
		return nil
	}
	if s.Empty() {
		http.SetCookie(w, m.cookie("", -1))
		s.dirty = false
		return nil
	}
	now := m.now()
	cl := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Notices: s.notices,
	}
	if s.principal != nil {
		cl.LoggedIn = true
		cl.Username = s.principal.Username
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(signed, 0))
	s.dirty = false
	return nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Middleware loads the session into the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), m.Load(r))))
	})
}

type contextKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request's session, or an empty one when the
// context carries none.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}
