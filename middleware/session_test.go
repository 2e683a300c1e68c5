package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"overtime-ui/viewsync"
)

const testSecret = "test-secret-0123456789"

func TestSessionCodecRoundTrip(t *testing.T) {
	codec := NewSessionCodec(testSecret, time.Hour, false)
	state := State{
		Session: viewsync.Session{
			Mode:         viewsync.ModeEditing,
			OriginalDate: "2024-05-01",
			Form:         viewsync.Form{Date: "2024-05-01", ClockOut: "18:00"},
		},
		Flash: []viewsync.Notice{{Level: viewsync.LevelSuccess, Title: "Notice", Message: "saved"}},
	}

	token, err := codec.Encode(state)
	if err != nil {
		t.Fatal(err)
	}
	got, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Session.OriginalDate != "2024-05-01" || got.Session.Form.ClockOut != "18:00" || len(got.Flash) != 1 {
		t.Errorf("decoded = %+v", got)
	}
}

func TestSessionCodecRejects(t *testing.T) {
	codec := NewSessionCodec(testSecret, time.Hour, false)
	valid, _ := codec.Encode(State{Session: viewsync.NewSession("2024-05-20")})

	other := NewSessionCodec("another-secret-0123456789", time.Hour, false)
	if _, err := other.Decode(valid); err == nil {
		t.Error("token accepted with the wrong secret")
	}

	expired := NewSessionCodec(testSecret, time.Hour, false)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Encode(State{Session: viewsync.NewSession("2024-05-20")})
	if _, err := codec.Decode(old); err == nil {
		t.Error("expired token accepted")
	}

	bogus, _ := codec.Encode(State{Session: viewsync.Session{Mode: "renaming"}})
	if _, err := codec.Decode(bogus); err == nil {
		t.Error("unknown mode accepted")
	}
}

func TestMiddlewareFallsBackToFreshSession(t *testing.T) {
	codec := NewSessionCodec(testSecret, time.Hour, false)
	fresh := func() viewsync.Session { return viewsync.NewSession("2024-05-20") }

	var seen *State
	h := codec.Middleware(fresh)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = StateFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil || seen.Session.Mode != viewsync.ModeNew || seen.Session.Form.Date != "2024-05-20" {
		t.Errorf("state = %+v", seen)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	h.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("request id = %q, header = %q", seen, rec.Header().Get("X-Request-ID"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(rec.Header().Get("X-Request-ID")) != 36 {
		t.Errorf("generated id = %q", rec.Header().Get("X-Request-ID"))
	}
}
