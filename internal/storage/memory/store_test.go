package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
)

func seed(t *testing.T, c *Container, number int) *candidate.Candidate {
	t.Helper()
	cand := candidate.NewCandidate(candidate.CreateInput{Name: fmt.Sprintf("Cand %d", number), Number: number}, time.Now())
	require.NoError(t, c.Candidates().Create(context.Background(), cand))
	return cand
}

func TestCandidateRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	c := NewContainer()
	repo := c.Candidates()

	b := seed(t, c, 2)
	a := seed(t, c, 1)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)

	list[0].Name = "mutated"
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cand 1", got.Name, "returned records must be copies")

	dup := candidate.NewCandidate(candidate.CreateInput{Name: "Dup", Number: 1}, time.Now())
	assert.ErrorIs(t, repo.Create(ctx, dup), common.ErrDuplicateBallotNumber)

	_, err = repo.Update(ctx, b.ID, map[string]any{candidate.FieldNumero: 1})
	assert.ErrorIs(t, err, common.ErrDuplicateBallotNumber)

	updated, err := repo.Update(ctx, b.ID, map[string]any{candidate.FieldCargo: "Delegado"})
	require.NoError(t, err)
	assert.Equal(t, "Delegado", updated.Position)

	byNumber, err := repo.GetByNumber(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, b.ID, byNumber.ID)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), common.ErrNotFound)
	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRecordIncrementsCounter(t *testing.T) {
	ctx := context.Background()
	c := NewContainer()
	cand := seed(t, c, 1)

	v := vote.NewVote("U1", cand.ID, "e1@uc.edu.pe", time.Now())
	require.NoError(t, c.Votes().Record(ctx, v))

	got, err := c.Candidates().GetByID(ctx, cand.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Votes)

	ok, err := c.Votes().ExistsBy(ctx, vote.FieldUserID, "U1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.Votes().ExistsBy(ctx, vote.FieldEmail, "e1@uc.edu.pe")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecordRejectionsLeaveNoTrace(t *testing.T) {
	ctx := context.Background()
	c := NewContainer()
	cand := seed(t, c, 1)
	require.NoError(t, c.Votes().Record(ctx, vote.NewVote("U1", cand.ID, "e1@uc.edu.pe", time.Now())))

	assert.ErrorIs(t, c.Votes().Record(ctx, vote.NewVote("U1", cand.ID, "e2@uc.edu.pe", time.Now())), common.ErrAlreadyVoted)
	assert.ErrorIs(t, c.Votes().Record(ctx, vote.NewVote("U2", cand.ID, "e1@uc.edu.pe", time.Now())), common.ErrEmailAlreadyUsed)
	assert.ErrorIs(t, c.Votes().Record(ctx, vote.NewVote("U3", "missing", "e3@uc.edu.pe", time.Now())), common.ErrCandidateNotFound)

	n, err := c.Votes().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ok, err := c.Votes().ExistsBy(ctx, vote.FieldUserID, "U3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentRecordSameUser(t *testing.T) {
	ctx := context.Background()
	c := NewContainer()
	cand := seed(t, c, 1)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := c.Votes().Record(ctx, vote.NewVote("U1", cand.ID, fmt.Sprintf("e%d@uc.edu.pe", i), time.Now()))
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	got, err := c.Candidates().GetByID(ctx, cand.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Votes)
}

func TestResetClearsVotesAndCounters(t *testing.T) {
	ctx := context.Background()
	c := NewContainer()
	a := seed(t, c, 1)
	b := seed(t, c, 2)

	for i := 0; i < 7; i++ {
		target := a
		if i%2 == 0 {
			target = b
		}
		require.NoError(t, c.Votes().Record(ctx, vote.NewVote(fmt.Sprintf("U%d", i), target.ID, fmt.Sprintf("e%d@uc.edu.pe", i), time.Now())))
	}

	deleted, err := c.Votes().Reset(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, deleted)

	n, err := c.Votes().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := c.Candidates().List(ctx)
	require.NoError(t, err)
	for _, cand := range list {
		assert.Zero(t, cand.Votes)
	}

	ok, err := c.Votes().ExistsBy(ctx, vote.FieldUserID, "U0")
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err = c.Votes().Reset(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestDeleteCandidateKeepsVotes(t *testing.T) {
	ctx := context.Background()
	c := NewContainer()
	cand := seed(t, c, 1)
	require.NoError(t, c.Votes().Record(ctx, vote.NewVote("U1", cand.ID, "e1@uc.edu.pe", time.Now())))

	require.NoError(t, c.Candidates().Delete(ctx, cand.ID))

	n, err := c.Votes().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCloseClearsStore(t *testing.T) {
	ctx := context.Background()
	c := NewContainer()
	cand := seed(t, c, 1)
	require.NoError(t, c.Votes().Record(ctx, vote.NewVote("U1", cand.ID, "u1@uc.edu.pe", time.Now())))

	require.NoError(t, c.Close())

	list, err := c.Candidates().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	n, err := c.Votes().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// the store stays usable and its lock is released
	again := seed(t, c, 1)
	require.NoError(t, c.Votes().Record(ctx, vote.NewVote("U1", again.ID, "u1@uc.edu.pe", time.Now())), "old identities were forgotten")
	require.NoError(t, c.Close())
}
