package session

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alphabot-ai/myblog/internal/model"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", time.Hour, false)
	require.NoError(t, err)
	return m
}

// roundTrip saves s and returns a request carrying the resulting cookie.
func roundTrip(t *testing.T, m *Manager, s *Session) (*http.Request, *http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(rec, s))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	var got *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			got = c
			req.AddCookie(c)
		}
	}
	return req, got
}

func TestLoginPersists(t *testing.T) {
	m := newManager(t)
	s := &Session{}
	s.Login(model.Principal{Username: "adalove"})

	req, c := roundTrip(t, m, s)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	loaded := m.Load(req)
	p, ok := loaded.Principal()
	require.True(t, ok)
	assert.Equal(t, "adalove", p.Username)
}

func TestNoticesPopOnce(t *testing.T) {
	m := newManager(t)
	s := &Session{}
	s.AddNotice(model.NoticeSuccess, "You are now registered.")
	s.AddNotice(model.NoticeInfo, "Welcome.")

	req, _ := roundTrip(t, m, s)
	loaded := m.Load(req)
	notices := loaded.PopNotices()
	require.Len(t, notices, 2)
	assert.Equal(t, model.NoticeSuccess, notices[0].Category)
	assert.Empty(t, loaded.PopNotices())

	// Popping the last notice of an anonymous session deletes the cookie.
	_, c := roundTrip(t, m, loaded)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	m := newManager(t)
	s := &Session{}
	s.Login(model.Principal{Username: "adalove"})
	_, c := roundTrip(t, m, s)
	require.NotNil(t, c)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: c.Value + "x"})
	assert.False(t, m.Load(req).LoggedIn())

	other, err := NewManager("other-secret", time.Hour, false)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	assert.False(t, other.Load(req).LoggedIn())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	assert.False(t, m.Load(req).LoggedIn())
}

func TestExpiredCookieIsAnonymous(t *testing.T) {
	m := newManager(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	s := &Session{}
	s.Login(model.Principal{Username: "adalove"})
	req, _ := roundTrip(t, m, s)
	assert.True(t, m.Load(req).LoggedIn())

	now = now.Add(2 * time.Hour)
	assert.False(t, m.Load(req).LoggedIn())
}

func TestClearIsIdempotent(t *testing.T) {
	m := newManager(t)
	s := &Session{}
	s.Login(model.Principal{Username: "adalove"})
	req, _ := roundTrip(t, m, s)

	loaded := m.Load(req)
	loaded.Clear()
	_, c := roundTrip(t, m, loaded)
	require.NotNil(t, c)
	assert.Less(t, c.MaxAge, 0)

	loaded.Clear()
	_, c = roundTrip(t, m, loaded)
	assert.Nil(t, c)
	assert.False(t, loaded.LoggedIn())
}

func TestMiddlewareAndFromContext(t *testing.T) {
	m := newManager(t)
	s := &Session{}
	s.Login(model.Principal{Username: "adalove"})
	req, _ := roundTrip(t, m, s)

	var seen string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := FromContext(r.Context()).Principal()
		seen = p.Username
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "adalove", seen)

	assert.False(t, FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()).LoggedIn())
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("  ", time.Hour, false)
	assert.ErrorIs(t, err, ErrSecretRequired)
}

func TestNoticesAreBounded(t *testing.T) {
	s := &Session{}
	for i := 0; i < MaxNotices+3; i++ {
		s.AddNotice(model.NoticeSuccess, fmt.Sprintf("notice %d", i))
	}
	notices := s.PopNotices()
	require.Len(t, notices, MaxNotices)
	assert.Equal(t, "notice 3", notices[0].Message)
}
