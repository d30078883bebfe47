package postgres

import (
	"errors"
	"fmt"
	"strings"

	"match-rank-tracker/internal/core/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes translated into domain errors.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeForeignKeyViolation  = "23503"
	codeNumericOutOfRange    = "22003"
)

// translate maps driver errors onto domain errors, keeping the original in
// the chain.
func translate(err error) error {
	if err == nil || errors.Is(err, domain.ErrPersistenceConflict) ||
		errors.Is(err, domain.ErrUnknownCommunity) || errors.Is(err, domain.ErrSkillOutOfRange) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %w", domain.ErrPersistenceConflict, err)
		case codeForeignKeyViolation:
			if strings.HasSuffix(pgErr.ConstraintName, "_community_id_fkey") {
				return fmt.Errorf("%w: %w", domain.ErrUnknownCommunity, err)
			}
		case codeNumericOutOfRange:
			return fmt.Errorf("%w: %w", domain.ErrSkillOutOfRange, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.SafeToRetry(err) {
		return fmt.Errorf("%w: %w", domain.ErrPersistenceConflict, err)
	}
	return err
}
