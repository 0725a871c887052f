package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/molstud/moltrain/pkg/api/auth"
	apierr "github.com/molstud/moltrain/pkg/api/types/errors"
	"github.com/molstud/moltrain/pkg/api/types/studio"
	"github.com/molstud/moltrain/pkg/domain"
	"github.com/molstud/moltrain/pkg/domain/chem"
	kerr "github.com/molstud/moltrain/pkg/domain/errors"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

// SessionRegistry is the part of the session layer the user handlers drive.
type SessionRegistry interface {
	OnLogin(userId string)
	OnDisconnect(userId string) bool
}

// LoginHandler creates the user's workspace and opens their session.
//
// The new workspace is seeded with a starter molecule so the frontend has
// something to show right away.
func LoginHandler(
	users storage.UserInterface,
	molecules storage.MoleculeInterface,
	conv chem.Interface,
	registry SessionRegistry,
	issuer *auth.Issuer,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := studio.LoginRequest{}
		if err := c.Bind(&req); err != nil {
			return apierr.BadRequest("send a JSON body with a username", err)
		}
		username := strings.TrimSpace(req.Username)
		if username == "" {
			return apierr.BadRequest("username must not be empty", nil)
		}

		userId := userIdOf(username)
		if err := users.New(ctx, domain.User{UserId: userId, Name: username}); errors.Is(err, kerr.ErrAlreadyExists) {
			return apierr.Conflict(fmt.Sprintf("user %s already exists", username))
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		if cml, err := conv.SMILESTo3DCML("O"); err == nil {
			if err := molecules.Upsert(ctx, userId, domain.Molecule{
				SMILES: "O", Name: "Water", CML: cml,
			}); err != nil {
				c.Logger().Warnf("cannot seed starter molecule for %s: %s", userId, err)
			}
		}

		registry.OnLogin(userId)

		token, err := issuer.Issue(userId)
		if err != nil {
			return apierr.InternalServerError(err)
		}
		return c.JSON(http.StatusCreated, studio.LoginResponse{UserId: userId, Token: token})
	}
}

// userIdOf derives a stable identifier from the username, so that logging
// in twice with the same name collides instead of forking workspaces.
func userIdOf(username string) string {
	sum := sha256.Sum256([]byte(username))
	return hex.EncodeToString(sum[:])[:32]
}

// DeleteUserHandler removes the user's workspace and closes their session.
func DeleteUserHandler(
	users storage.UserInterface,
	registry SessionRegistry,
	userIdParam string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(userIdParam)
		if err := requireSelf(c, userId); err != nil {
			return err
		}

		if _, err := users.Get(ctx, userId); errors.Is(err, kerr.ErrMissing) {
			return apierr.NotFound()
		} else if err != nil {
			return apierr.InternalServerError(err)
		}

		registry.OnDisconnect(userId)
		if err := users.Delete(ctx, userId); err != nil {
			return apierr.InternalServerError(err)
		}
		return c.NoContent(http.StatusOK)
	}
}
