package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gravadigital/votacion-api/internal/domain/common"
)

var uniqueIndexes = map[string]error{
	"idx_candidates_numero": common.ErrDuplicateBallotNumber,
	"idx_votes_user_id":     common.ErrAlreadyVoted,
	"idx_votes_correo":      common.ErrEmailAlreadyUsed,
}

// translateError maps duplicate key errors by index name; the server only
// reports the index inside the error message.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return common.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		msg := err.Error()
		for index, domainErr := range uniqueIndexes {
			if strings.Contains(msg, index) {
				return domainErr
			}
		}
	}
	return common.StoreError(op, err)
}
