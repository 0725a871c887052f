// Package auth issues and verifies the session tokens of the moltrain API.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apierr "github.com/molstud/moltrain/pkg/api/types/errors"
)

var ErrInvalidToken = errors.New("invalid token")

// Issuer mints and verifies signed session tokens. A token carries just the
// userId; liveness is the session registry's business.
type Issuer struct {
	signKey  []byte
	lifetime time.Duration
	now      func() time.Time
}

type IssuerOption func(*Issuer) *Issuer

// WithClock replaces the time source. For tests.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) *Issuer {
		i.now = now
		return i
	}
}

func NewIssuer(signKey string, lifetime time.Duration, options ...IssuerOption) *Issuer {
	i := &Issuer{
		signKey:  []byte(signKey),
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range options {
		i = opt(i)
	}
	return i
}

func (i *Issuer) Issue(userId string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userId,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
	})
	return token.SignedString(i.signKey)
}

// Verify checks the token and returns the userId it was issued for.
func (i *Issuer) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(
		token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("%w: signed with %s", ErrInvalidToken, t.Method.Alg())
			}
			return i.signKey, nil
		},
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return sub, nil
}

// SessionChecker reports whether the user has a live session, and records
// their activity.
type SessionChecker interface {
	Alive(userId string) bool
	Touch(userId string)
}

const userIdKey = "moltrain/userId"

// UserId returns the authenticated user of the request.
func UserId(c echo.Context) string {
	userId, _ := c.Get(userIdKey).(string)
	return userId
}

// SetUserId marks the request as authenticated.
// The middleware does this; tests may, too.
func SetUserId(c echo.Context, userId string) {
	c.Set(userIdKey, userId)
}

// Middleware authenticates requests with a bearer token.
//
// A valid token of a user without a live session is rejected too: the
// session may have been evicted for inactivity, and the client has to log
// in again. Every authenticated request counts as activity.
func Middleware(issuer *Issuer, sessions SessionChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return apierr.Unauthorized("send a bearer token")
			}

			userId, err := issuer.Verify(token)
			if err != nil {
				return apierr.Unauthorized("token is invalid or expired. log in again")
			}
			if !sessions.Alive(userId) {
				return apierr.Unauthorized("session is over. log in again")
			}

			sessions.Touch(userId)
			c.Set(userIdKey, userId)
			return next(c)
		}
	}
}

// WebsocketResolve extracts and verifies the token of a websocket request.
//
// Browsers cannot set headers on websocket dials, so the token also rides
// in the "token" query parameter.
func WebsocketResolve(issuer *Issuer, sessions SessionChecker) func(echo.Context) (string, error) {
	return func(c echo.Context) (string, error) {
		token := bearerToken(c)
		if token == "" {
			token = c.QueryParam("token")
		}
		if token == "" {
			return "", apierr.Unauthorized("send a bearer token")
		}

		userId, err := issuer.Verify(token)
		if err != nil {
			return "", apierr.Unauthorized("token is invalid or expired. log in again")
		}
		if !sessions.Alive(userId) {
			return "", apierr.Unauthorized("session is over. log in again")
		}
		return userId, nil
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, found := strings.CutPrefix(header, "Bearer "); found {
		return after
	}
	return ""
}
