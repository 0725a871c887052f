// Package postgres translates postgres-level failures into domain errors.
package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	kerr "github.com/molstud/moltrain/pkg/domain/errors"
)

// requested record is not found.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}
func (m Missing) Unwrap() error {
	return kerr.ErrMissing
}

// record to be created is already there.
type Duplicate struct {
	Table    string
	Identity string
}

var _ error = Duplicate{}

func (d Duplicate) Error() string {
	return fmt.Sprintf("%s already exists in %s", d.Identity, d.Table)
}
func (d Duplicate) Unwrap() error {
	return kerr.ErrAlreadyExists
}

// IsUniqueViolation reports whether err is postgres rejecting a duplicate key.
func IsUniqueViolation(err error) bool {
	pgerr := new(pgconn.PgError)
	return errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UniqueViolation
}

// IsForeignKeyViolation reports whether err is postgres rejecting a
// reference to a record that does not exist.
func IsForeignKeyViolation(err error) bool {
	pgerr := new(pgconn.PgError)
	return errors.As(err, &pgerr) && pgerr.Code == pgerrcode.ForeignKeyViolation
}
