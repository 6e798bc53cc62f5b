package vote_test

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
	"github.com/gravadigital/votacion-api/internal/lock"
	"github.com/gravadigital/votacion-api/internal/storage/memory"
)

type fixture struct {
	ledger   *vote.Ledger
	registry *candidate.Registry
	a, b     *candidate.Candidate
}

func newFixture(t *testing.T, opts vote.Options) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewContainer()
	registry := candidate.NewRegistry(store.Candidates())

	a, err := registry.Create(ctx, candidate.CreateInput{Name: "Ana", Number: 1})
	require.NoError(t, err)
	b, err := registry.Create(ctx, candidate.CreateInput{Name: "Beto", Number: 2})
	require.NoError(t, err)

	return &fixture{
		ledger:   vote.NewLedger(store.Votes(), registry, lock.NewLocal(time.Second), opts),
		registry: registry,
		a:        a,
		b:        b,
	}
}

func (f *fixture) votes(t *testing.T, id string) int {
	t.Helper()
	n, err := f.registry.VotesFor(context.Background(), id)
	require.NoError(t, err)
	return n
}

func TestCastVote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, vote.Options{NormalizeEmail: true})

	v, err := f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U1", CandidateID: f.a.ID, Email: "e1@uc.edu.pe"})
	require.NoError(t, err)
	assert.NotEmpty(t, v.ID)
	assert.False(t, v.CastAt.IsZero())
	assert.Equal(t, 1, f.votes(t, f.a.ID))

	voted, err := f.ledger.HasVoted(ctx, "U1", vote.FieldUserID)
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestCastVoteRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, vote.Options{NormalizeEmail: true})

	_, err := f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U1", CandidateID: f.a.ID, Email: "e1@uc.edu.pe"})
	require.NoError(t, err)

	_, err = f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U1", CandidateID: f.b.ID, Email: "e2@uc.edu.pe"})
	assert.ErrorIs(t, err, common.ErrAlreadyVoted)

	_, err = f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U2", CandidateID: f.a.ID, Email: "e1@uc.edu.pe"})
	assert.ErrorIs(t, err, common.ErrEmailAlreadyUsed)

	_, err = f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U3", CandidateID: f.a.ID, Email: "  E1@UC.edu.pe "})
	assert.ErrorIs(t, err, common.ErrEmailAlreadyUsed, "emails are compared case-insensitively")

	_, err = f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U4", CandidateID: "missing", Email: "e4@uc.edu.pe"})
	assert.ErrorIs(t, err, common.ErrCandidateNotFound)

	_, err = f.ledger.CastVote(ctx, vote.CastRequest{UserID: "", CandidateID: f.a.ID, Email: "e5@uc.edu.pe"})
	assert.True(t, common.IsValidation(err))

	_, err = f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U6", CandidateID: f.a.ID, Email: "not-an-email"})
	assert.True(t, common.IsValidation(err))

	lat := -12.0
	_, err = f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U7", CandidateID: f.a.ID, Email: "e7@uc.edu.pe", Lat: &lat})
	assert.True(t, common.IsValidation(err))

	assert.Equal(t, 1, f.votes(t, f.a.ID))
	n, err := f.ledger.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCastVoteCaseSensitiveEmailWhenNotNormalized(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, vote.Options{NormalizeEmail: false})

	_, err := f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U1", CandidateID: f.a.ID, Email: "e1@uc.edu.pe"})
	require.NoError(t, err)
	_, err = f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U2", CandidateID: f.a.ID, Email: "E1@uc.edu.pe"})
	assert.NoError(t, err)
}

func TestConcurrentDuplicateVotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, vote.Options{NormalizeEmail: true})

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, rejected := 0, 0
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.ledger.CastVote(ctx, vote.CastRequest{
				UserID:      "U1",
				CandidateID: f.a.ID,
				Email:       fmt.Sprintf("e%d@uc.edu.pe", i),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
			} else if assert.ErrorIs(t, err, common.ErrAlreadyVoted) {
				rejected++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 39, rejected)
	assert.Equal(t, 1, f.votes(t, f.a.ID))
}

func TestHasVotedValidation(t *testing.T) {
	f := newFixture(t, vote.Options{})

	_, err := f.ledger.HasVoted(context.Background(), "U1", vote.Field("nombre"))
	assert.True(t, common.IsValidation(err))

	_, err = f.ledger.HasVoted(context.Background(), " ", vote.FieldEmail)
	assert.True(t, common.IsValidation(err))

	voted, err := f.ledger.HasVoted(context.Background(), "nobody@uc.edu.pe", vote.FieldEmail)
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestResetElection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, vote.Options{BatchSize: 2, NormalizeEmail: true})

	for i := 0; i < 5; i++ {
		target := f.a.ID
		if i >= 3 {
			target = f.b.ID
		}
		_, err := f.ledger.CastVote(ctx, vote.CastRequest{UserID: fmt.Sprintf("U%d", i), CandidateID: target, Email: fmt.Sprintf("e%d@uc.edu.pe", i)})
		require.NoError(t, err)
	}

	deleted, err := f.ledger.ResetElection(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, deleted)
	assert.Zero(t, f.votes(t, f.a.ID))
	assert.Zero(t, f.votes(t, f.b.ID))

	_, err = f.ledger.CastVote(ctx, vote.CastRequest{UserID: "U0", CandidateID: f.b.ID, Email: "e0@uc.edu.pe"})
	assert.NoError(t, err, "identities are free again after a reset")
}
