package repository

import (
	"carwash/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidReference = errors.New("invalid reference")
	ErrDuplicate        = errors.New("duplicate record")
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translate maps driver errors onto repository sentinels and wraps everything else
// with the failing operation name.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrap(ErrDuplicate, op)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return errors.Wrapf(ErrInvalidReference, "%s: %s", op, pgErr.ConstraintName)
		case pgUniqueViolation:
			return errors.Wrapf(ErrDuplicate, "%s: %s", op, pgErr.ConstraintName)
		}
	}
	return errors.Wrap(err, op)
}

// DomainError maps repository sentinels onto the domain errors services return.
// Anything else, nil included, passes through.
func DomainError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, ErrInvalidReference):
		return domain.Invalid("reference", err.Error())
	}
	return err
}
