// Package auth owns the back-office session: a signed cookie carrying the
// user id, and a per-request SessionUser loaded fresh through a UserFetcher.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const userIDKey = "user_id"

// SessionUser is the explicit session context handed to handlers. Role
// checks are done with the pure functions in package authz.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserFetcher loads the current state of a user. It returns nil when the user
// does not exist or is disabled.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

// SessionManager wraps the cookie store and the user lookup.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure with SameSite=Lax; over plain
// http in development secure must be false or browsers drop the cookie.
func NewSessionManager(sessionKey, name, domain string, maxAge time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide at least 32 random characters")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "municipio-session"
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)

	logger.Info("session store initialized", zap.Bool("secure", secure), zap.String("domain", domain))
	return &SessionManager{store: store, name: name, log: logger}, nil
}

// GenerateKey returns a random key suitable for session_key in development.
func GenerateKey() string {
	return fmt.Sprintf("%x", securecookie.GenerateRandomKey(32))
}

// SetUserFetcher installs the lookup used by LoadSessionUser.
func (m *SessionManager) SetUserFetcher(f UserFetcher) {
	m.fetcher = f
}

// LoadSessionUser injects the signed-in user into the request context.
// Users that no longer exist or are disabled are treated as signed out.
func (m *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, m.name)
		if err != nil {
			// Tampered or rotated-key cookie: continue anonymously.
			next.ServeHTTP(w, r)
			return
		}
		id, _ := sess.Values[userIDKey].(string)
		if id == "" || m.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}
		if u := m.fetcher.FetchUser(r.Context(), id); u != nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// Login stores the user id in the session cookie.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// Logout expires the session cookie.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// RequireSignedIn answers 401 when no user is in context.
func (m *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			deny(w, http.StatusUnauthorized, "unauthorized", "Please sign in to continue.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole answers 401 without a user and 403 when the user's role is not
// accepted by allow.
func (m *SessionManager) RequireRole(allow func(role string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				deny(w, http.StatusUnauthorized, "unauthorized", "Please sign in to continue.")
				return
			}
			if !allow(strings.ToLower(u.Role)) {
				deny(w, http.StatusForbidden, "forbidden", "You don't have permission to do that.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser puts u into the request context, bypassing the cookie.
// Intended for handler tests.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func deny(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code, "message": msg})
}
