package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	kpool "github.com/molstud/moltrain/pkg/conn/db/postgres/pool"
	"github.com/molstud/moltrain/pkg/domain"
	kpgerr "github.com/molstud/moltrain/pkg/domain/errors/dberrors/postgres"
	"github.com/molstud/moltrain/pkg/domain/storage"
)

type pgUsers struct {
	pool kpool.Pool
}

var _ storage.UserInterface = &pgUsers{}

func (u *pgUsers) New(ctx context.Context, user domain.User) error {
	_, err := u.pool.Exec(
		ctx,
		`insert into "users" ("user_id", "name") values ($1, $2)`,
		user.UserId, user.Name,
	)
	if kpgerr.IsUniqueViolation(err) {
		return kpgerr.Duplicate{Table: "users", Identity: user.UserId}
	}
	return err
}

func (u *pgUsers) Get(ctx context.Context, userId string) (domain.User, error) {
	user := domain.User{UserId: userId}
	err := u.pool.QueryRow(
		ctx,
		`select "name" from "users" where "user_id" = $1`,
		userId,
	).Scan(&user.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, kpgerr.Missing{Table: "users", Identity: userId}
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u *pgUsers) Delete(ctx context.Context, userId string) error {
	// molecules, models, fittings and scoreboard rows go with the user
	// via their foreign keys.
	_, err := u.pool.Exec(
		ctx,
		`delete from "users" where "user_id" = $1`,
		userId,
	)
	return err
}
