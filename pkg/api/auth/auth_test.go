package auth_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/molstud/moltrain/pkg/api/auth"
)

func TestIssuer(t *testing.T) {

	t.Run("it verifies a token it issued", func(t *testing.T) {
		issuer := auth.NewIssuer("test-key", time.Hour)

		token, err := issuer.Issue("user-1")
		if err != nil {
			t.Fatalf("Issue failed: %s", err)
		}

		userId, err := issuer.Verify(token)
		if err != nil {
			t.Fatalf("Verify failed: %s", err)
		}
		if userId != "user-1" {
			t.Errorf("token verified for %s, expected user-1", userId)
		}
	})

	t.Run("it rejects a token signed with another key", func(t *testing.T) {
		issuer := auth.NewIssuer("test-key", time.Hour)
		intruder := auth.NewIssuer("other-key", time.Hour)

		token, err := intruder.Issue("user-1")
		if err != nil {
			t.Fatalf("Issue failed: %s", err)
		}

		if _, err := issuer.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("it rejects an expired token", func(t *testing.T) {
		now := time.Now()
		issuer := auth.NewIssuer(
			"test-key", time.Hour,
			auth.WithClock(func() time.Time { return now }),
		)

		token, err := issuer.Issue("user-1")
		if err != nil {
			t.Fatalf("Issue failed: %s", err)
		}

		now = now.Add(2 * time.Hour)
		if _, err := issuer.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("it rejects garbage", func(t *testing.T) {
		issuer := auth.NewIssuer("test-key", time.Hour)

		if _, err := issuer.Verify("not.a.token"); !errors.Is(err, auth.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

type fakeSessions struct {
	alive   map[string]bool
	touched []string
}

func (f *fakeSessions) Alive(userId string) bool {
	return f.alive[userId]
}

func (f *fakeSessions) Touch(userId string) {
	f.touched = append(f.touched, userId)
}

func TestMiddleware(t *testing.T) {

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, auth.UserId(c))
	}

	t.Run("it lets a live user's request through and records activity", func(t *testing.T) {
		issuer := auth.NewIssuer("test-key", time.Hour)
		sessions := &fakeSessions{alive: map[string]bool{"user-1": true}}

		token, err := issuer.Issue("user-1")
		if err != nil {
			t.Fatalf("Issue failed: %s", err)
		}

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := auth.Middleware(issuer, sessions)(handler)(c); err != nil {
			t.Fatalf("request rejected: %s", err)
		}
		if rec.Body.String() != "user-1" {
			t.Errorf("handler saw user %q, expected user-1", rec.Body.String())
		}
		if len(sessions.touched) != 1 || sessions.touched[0] != "user-1" {
			t.Errorf("activity not recorded: %v", sessions.touched)
		}
	})

	for name, testcase := range map[string]struct {
		header string
		alive  bool
	}{
		"it rejects a request without a token":         {header: "", alive: true},
		"it rejects a token of an evicted session":     {header: "valid", alive: false},
		"it rejects a token that does not parse":       {header: "Bearer garbage", alive: true},
		"it rejects a token outside the Bearer scheme": {header: "Basic dXNlcjpwdw==", alive: true},
	} {
		t.Run(name, func(t *testing.T) {
			issuer := auth.NewIssuer("test-key", time.Hour)
			sessions := &fakeSessions{alive: map[string]bool{}}
			if testcase.alive {
				sessions.alive["user-1"] = true
			}

			header := testcase.header
			if header == "valid" {
				token, err := issuer.Issue("user-1")
				if err != nil {
					t.Fatalf("Issue failed: %s", err)
				}
				header = "Bearer " + token
			}

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set(echo.HeaderAuthorization, header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := auth.Middleware(issuer, sessions)(handler)(c)

			httpErr := new(echo.HTTPError)
			if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %v", err)
			}
			if len(sessions.touched) != 0 {
				t.Errorf("rejected request recorded activity: %v", sessions.touched)
			}
		})
	}
}
