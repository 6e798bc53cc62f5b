package candidate

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/logger"
	"github.com/gravadigital/votacion-api/internal/validation"
)

// Registry implements candidate CRUD and the tally computations.
// Every read goes to the repository; nothing is cached.
type Registry struct {
	repo      Repository
	validator validation.CandidateValidation
	log       *log.Logger
	now       func() time.Time
}

func NewRegistry(repo Repository) *Registry {
	return &Registry{
		repo:      repo,
		validator: validation.CandidateValidation{},
		log:       logger.Service("candidate_registry"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns every candidate ordered by ballot number
func (r *Registry) List(ctx context.Context) ([]*Candidate, error) {
	return r.repo.List(ctx)
}

// Get returns a candidate or common.ErrNotFound
func (r *Registry) Get(ctx context.Context, id string) (*Candidate, error) {
	if err := validation.ValidateRequired(id, "id"); err != nil {
		return nil, err
	}
	return r.repo.GetByID(ctx, id)
}

// Exists reports whether a candidate with id exists
func (r *Registry) Exists(ctx context.Context, id string) (bool, error) {
	return r.repo.Exists(ctx, id)
}

// Create registers a candidate; the ballot number must be unused
func (r *Registry) Create(ctx context.Context, in CreateInput) (*Candidate, error) {
	if err := r.validateCreate(in); err != nil {
		return nil, err
	}

	if taken, err := r.numberTaken(ctx, in.Number, ""); err != nil {
		return nil, err
	} else if taken {
		r.log.Warn("ballot number already in use", "numero", in.Number)
		return nil, common.ErrDuplicateBallotNumber
	}

	c := NewCandidate(in, r.now())
	if err := r.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	r.log.Info("candidate created", "candidate_id", c.ID, "numero", c.Number)
	return c, nil
}

// Update applies a partial update
func (r *Registry) Update(ctx context.Context, id string, patch Patch) (*Candidate, error) {
	if err := r.validatePatch(patch); err != nil {
		return nil, err
	}

	existing, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Number.HasValue() && patch.Number.Value != existing.Number {
		if taken, err := r.numberTaken(ctx, patch.Number.Value, id); err != nil {
			return nil, err
		} else if taken {
			return nil, common.ErrDuplicateBallotNumber
		}
	}

	changes := patch.Changes()
	changes[FieldUpdatedAt] = r.now()

	updated, err := r.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, err
	}

	r.log.Info("candidate updated", "candidate_id", id, "fields", len(changes)-1)
	return updated, nil
}

// SetImage stores the public URL of an uploaded image
func (r *Registry) SetImage(ctx context.Context, id, url string) (*Candidate, error) {
	var patch Patch
	patch.Image = common.Some(url)
	return r.Update(ctx, id, patch)
}

// Delete removes a candidate. Votes already cast for it are kept.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, id); err != nil {
		return err
	}
	r.log.Info("candidate deleted", "candidate_id", id)
	return nil
}

// VotesFor returns the counter of a candidate, zero when it does not exist
func (r *Registry) VotesFor(ctx context.Context, id string) (int, error) {
	c, err := r.repo.GetByID(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return c.Votes, nil
}

// Tally returns the per-candidate counts and percentages
func (r *Registry) Tally(ctx context.Context) ([]TallyEntry, error) {
	candidates, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeTally(candidates), nil
}

// Statistics returns totals and the current leader
func (r *Registry) Statistics(ctx context.Context) (Statistics, error) {
	candidates, err := r.repo.List(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return ComputeStatistics(candidates), nil
}

// Snapshot returns tally and statistics computed from a single read
func (r *Registry) Snapshot(ctx context.Context) (Snapshot, error) {
	candidates, err := r.repo.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(candidates), nil
}

func (r *Registry) numberTaken(ctx context.Context, number int, exceptID string) (bool, error) {
	existing, err := r.repo.GetByNumber(ctx, number)
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != exceptID, nil
}

func (r *Registry) validateCreate(in CreateInput) error {
	if err := r.validator.ValidateNombre(in.Name); err != nil {
		return err
	}
	if err := r.validator.ValidateNumero(in.Number); err != nil {
		return err
	}
	texts := map[string]string{
		FieldCargo:       in.Position,
		FieldImagen:      in.Image,
		FieldPropuesta:   in.Proposal,
		FieldVision:      in.Vision,
		FieldExperiencia: in.Experience,
		FieldSemestre:    in.Semester,
	}
	for field, value := range texts {
		if err := r.validator.ValidateText(value, field); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) validatePatch(p Patch) error {
	if p.Name.Set {
		if p.Name.Null {
			return common.NewValidationError(FieldNombre, "cannot be null")
		}
		if err := r.validator.ValidateNombre(p.Name.Value); err != nil {
			return err
		}
	}
	if p.Number.Set {
		if p.Number.Null {
			return common.NewValidationError(FieldNumero, "cannot be null")
		}
		if err := r.validator.ValidateNumero(p.Number.Value); err != nil {
			return err
		}
	}
	for field, value := range p.Changes() {
		if s, ok := value.(string); ok && field != FieldNombre {
			if err := r.validator.ValidateText(s, field); err != nil {
				return err
			}
		}
	}
	return nil
}
