package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggingUserID(t *testing.T) {
	fake := newFakeAuth(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	serve := func(h http.Handler, mut func(*http.Request)) string {
		var buf bytes.Buffer
		logged := Logging(slog.New(slog.NewJSONHandler(&buf, nil)))(h)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if mut != nil {
			mut(req)
		}
		logged.ServeHTTP(httptest.NewRecorder(), req)
		return buf.String()
	}

	t.Run("bearer", func(t *testing.T) {
		line := serve(BearerAuth(fake)(ok), func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer valid-token")
		})
		if !strings.Contains(line, `"user_id":"user-1"`) {
			t.Errorf("log line should carry the bearer user: %s", line)
		}
	})

	t.Run("session", func(t *testing.T) {
		line := serve(SessionAuth(fake)(ok), func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: fake.session.ID})
		})
		if !strings.Contains(line, `"user_id":"user-1"`) {
			t.Errorf("log line should carry the session user: %s", line)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		line := serve(ok, nil)
		if strings.Contains(line, "user_id") {
			t.Errorf("anonymous request should not log a user_id: %s", line)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		line := serve(BearerAuth(fake)(ok), func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer nope")
		})
		if strings.Contains(line, "user_id") {
			t.Errorf("rejected request should not log a user_id: %s", line)
		}
		if !strings.Contains(line, `"status":401`) {
			t.Errorf("rejected request should log its status: %s", line)
		}
	})
}
