package memory

import (
	"context"
	"time"

	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
)

// VoteRepository is the in-memory vote.Repository
type VoteRepository struct {
	st *state
}

func (r *VoteRepository) ExistsBy(ctx context.Context, field vote.Field, key string) (bool, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	switch field {
	case vote.FieldUserID:
		_, ok := r.st.byUserID[key]
		return ok, nil
	case vote.FieldEmail:
		_, ok := r.st.byEmail[key]
		return ok, nil
	}
	return false, common.NewValidationError("field", "must be user_id or correo")
}

func (r *VoteRepository) Record(ctx context.Context, v *vote.Vote) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	c, ok := r.st.candidates[v.CandidateID]
	if !ok {
		return common.ErrCandidateNotFound
	}
	if _, ok := r.st.byUserID[v.UserID]; ok {
		return common.ErrAlreadyVoted
	}
	if _, ok := r.st.byEmail[v.Email]; ok {
		return common.ErrEmailAlreadyUsed
	}

	stored := *v
	r.st.votes[v.ID] = &stored
	r.st.byUserID[v.UserID] = v.ID
	r.st.byEmail[v.Email] = v.ID

	updated := c.Clone()
	updated.Votes++
	updated.UpdatedAt = time.Now().UTC()
	r.st.candidates[c.ID] = updated
	return nil
}

func (r *VoteRepository) Count(ctx context.Context) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	return int64(len(r.st.votes)), nil
}

// Reset clears the ledger in one critical section. Batches only bound how
// many records are visited per pass so the behavior matches the other backends.
func (r *VoteRepository) Reset(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	ids := make([]string, 0, len(r.st.votes))
	for id := range r.st.votes {
		ids = append(ids, id)
	}
	deleted := 0
	for start := 0; start < len(ids); start += batchSize {
		end := min(start+batchSize, len(ids))
		for _, id := range ids[start:end] {
			v := r.st.votes[id]
			delete(r.st.byUserID, v.UserID)
			delete(r.st.byEmail, v.Email)
			delete(r.st.votes, id)
			deleted++
		}
	}

	now := time.Now().UTC()
	for id, c := range r.st.candidates {
		if c.Votes == 0 {
			continue
		}
		updated := c.Clone()
		updated.Votes = 0
		updated.UpdatedAt = now
		r.st.candidates[id] = updated
	}

	return deleted, nil
}
