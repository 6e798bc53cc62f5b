package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
	"github.com/gravadigital/votacion-api/internal/logger"
)

// PostgresVoteRepository implements vote.Repository using GORM
type PostgresVoteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresVoteRepository creates a new PostgreSQL vote repository
func NewPostgresVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{
		db:  db,
		log: logger.Repository("vote"),
	}
}

func (r *PostgresVoteRepository) ExistsBy(ctx context.Context, field vote.Field, key string) (bool, error) {
	if !field.Valid() {
		return false, common.NewValidationError("field", "must be user_id or correo")
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&vote.Vote{}).Where(fmt.Sprintf("%s = ?", field), key).Count(&count).Error
	if err != nil {
		r.log.Error("failed to check vote", "field", field, "error", err)
		return false, translateError("check vote", err)
	}
	return count > 0, nil
}

// Record inserts the vote and increments the counter in one transaction.
// The candidate row is locked first so a concurrent delete cannot slip in.
func (r *PostgresVoteRepository) Record(ctx context.Context, v *vote.Vote) error {
	if err := v.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c candidate.Candidate
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", v.CandidateID).
			Take(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrCandidateNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Create(v).Error; err != nil {
			return err
		}

		return tx.Model(&candidate.Candidate{}).
			Where("id = ?", v.CandidateID).
			UpdateColumns(map[string]any{
				candidate.FieldVotos:     gorm.Expr("votos + 1"),
				candidate.FieldUpdatedAt: time.Now().UTC(),
			}).Error
	})
	if err != nil {
		r.log.Warn("vote not recorded", "vote_id", v.ID, "candidate_id", v.CandidateID, "error", err)
		return translateError("record vote", err)
	}

	r.log.Debug("vote recorded", "vote_id", v.ID, "candidate_id", v.CandidateID)
	return nil
}

func (r *PostgresVoteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&vote.Vote{}).Count(&count).Error; err != nil {
		return 0, translateError("count votes", err)
	}
	return count, nil
}

// resetLockSQL takes candidates before votes, the same order Record locks
// them in. EXCLUSIVE waits for in-flight Record transactions (their FOR UPDATE
// holds ROW SHARE) and blocks new ones until the reset commits. Reads go on.
const resetLockSQL = "LOCK TABLE candidates, votes IN EXCLUSIVE MODE"

// Reset deletes votes and zeroes counters in batches of batchSize rows,
// all inside one transaction.
func (r *PostgresVoteRepository) Reset(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	deleted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(resetLockSQL).Error; err != nil {
			return err
		}

		for {
			result := tx.Exec("DELETE FROM votes WHERE id IN (SELECT id FROM votes LIMIT ?)", batchSize)
			if result.Error != nil {
				return result.Error
			}
			deleted += int(result.RowsAffected)
			r.log.Debug("deleted vote batch", "rows", result.RowsAffected)
			if result.RowsAffected < int64(batchSize) {
				break
			}
		}

		now := time.Now().UTC()
		for {
			result := tx.Exec(
				"UPDATE candidates SET votos = 0, updated_at = ? WHERE id IN (SELECT id FROM candidates WHERE votos <> 0 LIMIT ?)",
				now, batchSize)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected < int64(batchSize) {
				break
			}
		}
		return nil
	})
	if err != nil {
		r.log.Error("failed to reset election", "error", err)
		return 0, translateError("reset election", err)
	}

	return deleted, nil
}
