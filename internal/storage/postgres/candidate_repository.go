package postgres

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/logger"
)

// PostgresCandidateRepository implements candidate.Repository using GORM
type PostgresCandidateRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresCandidateRepository creates a new PostgreSQL candidate repository
func NewPostgresCandidateRepository(db *gorm.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{
		db:  db,
		log: logger.Repository("candidate"),
	}
}

func (r *PostgresCandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	r.log.Debug("creating candidate", "candidate_id", c.ID, "numero", c.Number)

	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		r.log.Error("failed to create candidate", "error", err, "candidate_id", c.ID)
		return translateError("create candidate", err)
	}
	return nil
}

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id string) (*candidate.Candidate, error) {
	var c candidate.Candidate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("candidate not found", "candidate_id", id)
			return nil, common.ErrNotFound
		}
		r.log.Error("failed to retrieve candidate", "candidate_id", id, "error", err)
		return nil, translateError("get candidate", err)
	}
	return &c, nil
}

func (r *PostgresCandidateRepository) GetByNumber(ctx context.Context, number int) (*candidate.Candidate, error) {
	var c candidate.Candidate
	if err := r.db.WithContext(ctx).Where("numero = ?", number).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, translateError("get candidate by numero", err)
	}
	return &c, nil
}

func (r *PostgresCandidateRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&candidate.Candidate{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError("check candidate", err)
	}
	return count > 0, nil
}

func (r *PostgresCandidateRepository) List(ctx context.Context) ([]*candidate.Candidate, error) {
	var candidates []*candidate.Candidate
	if err := r.db.WithContext(ctx).Order("numero ASC").Find(&candidates).Error; err != nil {
		r.log.Error("failed to list candidates", "error", err)
		return nil, translateError("list candidates", err)
	}
	return candidates, nil
}

func (r *PostgresCandidateRepository) Update(ctx context.Context, id string, changes map[string]any) (*candidate.Candidate, error) {
	r.log.Debug("updating candidate", "candidate_id", id, "fields", len(changes))

	result := r.db.WithContext(ctx).Model(&candidate.Candidate{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		r.log.Error("failed to update candidate", "candidate_id", id, "error", result.Error)
		return nil, translateError("update candidate", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, common.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *PostgresCandidateRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&candidate.Candidate{})
	if result.Error != nil {
		r.log.Error("failed to delete candidate", "candidate_id", id, "error", result.Error)
		return translateError("delete candidate", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
