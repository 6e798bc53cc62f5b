package migrations

import (
	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
)

// AllModels returns a slice of all models for migration
func AllModels() []any {
	return []any{
		&candidate.Candidate{},
		&vote.Vote{},
	}
}
