package console

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"overtime-ui/backend"
	"overtime-ui/backend/backendtest"
	"overtime-ui/viewsync"
)

func now() time.Time {
	return time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
}

func setup(t *testing.T) (*viewsync.Controller, *backendtest.Server) {
	t.Helper()
	fake := backendtest.New(now)
	srv := httptest.NewServer(fake.Router())
	t.Cleanup(srv.Close)
	return viewsync.NewController(backend.NewClient(srv.URL), viewsync.Options{Clock: now}), fake
}

func TestRunDeleteAnswers(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		assumeYes bool
		deleted   bool
	}{
		{"typed yes", "y\n", false, true},
		{"typed no", "n\n", false, false},
		{"end of input", "", false, false},
		{"assume yes", "", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, fake := setup(t)
			fake.Put("2024-05-02", "18:00", false)

			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out, tt.assumeYes)
			s, err := Run(context.Background(), c, c.NewSession(),
				viewsync.NewCommand(viewsync.CmdDelete, "date", "2024-05-02"), NewRenderer(&out), p)
			if err != nil {
				t.Fatal(err)
			}
			if s.Prompt != nil {
				t.Error("prompt left pending")
			}
			_, exists := fake.Get("2024-05-02")
			if exists == tt.deleted {
				t.Errorf("record exists = %v, want deleted = %v", exists, tt.deleted)
			}
			if !strings.Contains(out.String(), "2024-05-02") {
				t.Errorf("prompt did not name the date: %q", out.String())
			}
		})
	}
}

func TestRendererOutput(t *testing.T) {
	c, fake := setup(t)
	fake.Put("2024-05-02", "19:00", false)
	fake.Put("2024-04-02", "18:00", false)

	var out bytes.Buffer
	c.Refresh(context.Background(), NewRenderer(&out))

	got := out.String()
	for _, want := range []string{"May 2024", "1 records", "2 h *", "workday", "history, 2 months", "April 2024"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
