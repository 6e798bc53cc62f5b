package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gravadigital/votacion-api/internal/domain/common"
)

const uniqueViolation = "23505"

// uniqueConstraints maps unique index names to the rejection they signal
var uniqueConstraints = map[string]error{
	"idx_candidates_numero": common.ErrDuplicateBallotNumber,
	"idx_votes_user_id":     common.ErrAlreadyVoted,
	"idx_votes_correo":      common.ErrEmailAlreadyUsed,
}

// translateError turns unique violations into domain errors and wraps
// everything else as a storage failure.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if domainErr, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
			return domainErr
		}
	}

	for _, known := range []error{
		common.ErrNotFound,
		common.ErrCandidateNotFound,
		common.ErrAlreadyVoted,
		common.ErrEmailAlreadyUsed,
		common.ErrDuplicateBallotNumber,
	} {
		if errors.Is(err, known) {
			return err
		}
	}

	return common.StoreError(op, err)
}
