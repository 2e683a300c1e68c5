package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"overtime-ui/viewsync"
)

const SessionCookieName = "overtime_session"

const stateContextKey contextKey = "session-state"

// State is what the browser carries between requests: the edit session
// and notifications not yet shown.
type State struct {
	Session viewsync.Session  `json:"session"`
	Flash   []viewsync.Notice `json:"flash,omitempty"`
}

type SessionClaims struct {
	State
	jwt.RegisteredClaims
}

// SessionCodec signs the client-side edit session into an HS256 token
// stored in a cookie. Nothing is kept server side.
type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionCodec(secret string, ttl time.Duration, secure bool) *SessionCodec {
	return &SessionCodec{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

func (c *SessionCodec) Encode(state State) (string, error) {
	now := c.now()
	claims := &SessionClaims{
		State: state,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *SessionCodec) Decode(tokenString string) (*State, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Session.Mode != viewsync.ModeNew && claims.Session.Mode != viewsync.ModeEditing {
		return nil, errors.New("session: unknown mode")
	}
	return &claims.State, nil
}

// Save writes state to the response cookie.
func (c *SessionCodec) Save(w http.ResponseWriter, state State) error {
	token, err := c.Encode(state)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Middleware loads the session state into the request context. A
// missing, expired or tampered cookie yields fresh, a NEW session.
func (c *SessionCodec) Middleware(fresh func() viewsync.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := &State{Session: fresh()}
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if decoded, err := c.Decode(cookie.Value); err == nil {
					state = decoded
				}
			}
			ctx := context.WithValue(r.Context(), stateContextKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func StateFromContext(ctx context.Context) *State {
	state, ok := ctx.Value(stateContextKey).(*State)
	if !ok {
		return nil
	}
	return state
}
