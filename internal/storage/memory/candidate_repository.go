package memory

import (
	"context"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/common"
)

// CandidateRepository is the in-memory candidate.Repository
type CandidateRepository struct {
	st *state
}

func (r *CandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for _, existing := range r.st.candidates {
		if existing.Number == c.Number {
			return common.ErrDuplicateBallotNumber
		}
	}
	r.st.candidates[c.ID] = c.Clone()
	return nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*candidate.Candidate, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	c, ok := r.st.candidates[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *CandidateRepository) GetByNumber(ctx context.Context, number int) (*candidate.Candidate, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	for _, c := range r.st.candidates {
		if c.Number == number {
			return c.Clone(), nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *CandidateRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	_, ok := r.st.candidates[id]
	return ok, nil
}

func (r *CandidateRepository) List(ctx context.Context) ([]*candidate.Candidate, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	return sortedCandidates(r.st.candidates), nil
}

func (r *CandidateRepository) Update(ctx context.Context, id string, changes map[string]any) (*candidate.Candidate, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	c, ok := r.st.candidates[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if number, ok := changes[candidate.FieldNumero].(int); ok {
		for otherID, other := range r.st.candidates {
			if otherID != id && other.Number == number {
				return nil, common.ErrDuplicateBallotNumber
			}
		}
	}

	updated := c.Clone()
	candidate.ApplyChanges(updated, changes)
	r.st.candidates[id] = updated
	return updated.Clone(), nil
}

func (r *CandidateRepository) Delete(ctx context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.candidates[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.st.candidates, id)
	return nil
}
