package mongo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gravadigital/votacion-api/internal/domain/common"
)

func duplicateKey(index string) error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: "E11000 duplicate key error collection: votacion.votes index: " + index + " dup key",
		}},
	}
}

func TestTranslateError(t *testing.T) {
	assert.ErrorIs(t, translateError("op", duplicateKey("idx_votes_user_id")), common.ErrAlreadyVoted)
	assert.ErrorIs(t, translateError("op", duplicateKey("idx_votes_correo")), common.ErrEmailAlreadyUsed)
	assert.ErrorIs(t, translateError("op", duplicateKey("idx_candidates_numero")), common.ErrDuplicateBallotNumber)
	assert.ErrorIs(t, translateError("op", duplicateKey("_id_")), common.ErrStoreUnavailable)
	assert.ErrorIs(t, translateError("op", mongo.ErrNoDocuments), common.ErrNotFound)
	assert.ErrorIs(t, translateError("op", errors.New("server selection timeout")), common.ErrStoreUnavailable)
	assert.NoError(t, translateError("op", nil))
}
