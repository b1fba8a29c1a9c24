package service

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/spec-kit/cafe-admin-service/pkg/util"
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique-index
// violation. The partial unique indexes on live rows make this the
// authoritative duplicate signal; the pre-checks only exist for friendlier
// error details.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// errInvalidCredentials is the uniform login failure. Unknown identifier,
// wrong password and soft-deleted account are indistinguishable to callers.
func errInvalidCredentials() error {
	return apperrors.NewUnauthorized("invalid credentials")
}

func errDuplicateUser() error {
	return apperrors.NewConflict("email or username already registered", nil)
}

func errDuplicateSlug() error {
	return apperrors.NewConflict("menu slug already in use", nil)
}
