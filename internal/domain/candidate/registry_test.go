package candidate_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/storage/memory"
)

func newRegistry() *candidate.Registry {
	return candidate.NewRegistry(memory.NewContainer().Candidates())
}

func TestRegistryCreate(t *testing.T) {
	ctx := context.Background()
	r := newRegistry()

	c, err := r.Create(ctx, candidate.CreateInput{Name: "Ana", Number: 1, Position: "Presidente"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Zero(t, c.Votes)
	assert.False(t, c.CreatedAt.IsZero())

	_, err = r.Create(ctx, candidate.CreateInput{Name: "Beto", Number: 1})
	assert.ErrorIs(t, err, common.ErrDuplicateBallotNumber)

	_, err = r.Create(ctx, candidate.CreateInput{Name: "", Number: 2})
	assert.True(t, common.IsValidation(err))

	_, err = r.Create(ctx, candidate.CreateInput{Name: "Carla", Number: 0})
	assert.True(t, common.IsValidation(err))
}

func TestRegistryUpdate(t *testing.T) {
	ctx := context.Background()
	r := newRegistry()

	ana, err := r.Create(ctx, candidate.CreateInput{Name: "Ana", Number: 1, Vision: "v", Proposal: "p"})
	require.NoError(t, err)
	_, err = r.Create(ctx, candidate.CreateInput{Name: "Beto", Number: 2})
	require.NoError(t, err)

	var patch candidate.Patch
	require.NoError(t, json.Unmarshal([]byte(`{"cargo":"Delegada","vision":null,"votos":99}`), &patch))

	updated, err := r.Update(ctx, ana.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, "Delegada", updated.Position)
	assert.Equal(t, "", updated.Vision)
	assert.Equal(t, "p", updated.Proposal)
	assert.Equal(t, "Ana", updated.Name)
	assert.Zero(t, updated.Votes)
	assert.True(t, !updated.UpdatedAt.Before(ana.UpdatedAt))

	var renumber candidate.Patch
	renumber.Number = common.Some(2)
	_, err = r.Update(ctx, ana.ID, renumber)
	assert.ErrorIs(t, err, common.ErrDuplicateBallotNumber)

	var same candidate.Patch
	same.Number = common.Some(1)
	_, err = r.Update(ctx, ana.ID, same)
	assert.NoError(t, err)

	var nullName candidate.Patch
	require.NoError(t, json.Unmarshal([]byte(`{"nombre":null}`), &nullName))
	_, err = r.Update(ctx, ana.ID, nullName)
	assert.True(t, common.IsValidation(err))

	_, err = r.Update(ctx, "missing", patch)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRegistryDeleteAndGet(t *testing.T) {
	ctx := context.Background()
	r := newRegistry()

	c, err := r.Create(ctx, candidate.CreateInput{Name: "Ana", Number: 1})
	require.NoError(t, err)

	got, err := r.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	require.NoError(t, r.Delete(ctx, c.ID))
	assert.ErrorIs(t, r.Delete(ctx, c.ID), common.ErrNotFound)

	_, err = r.Get(ctx, c.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = r.Get(ctx, "")
	assert.True(t, common.IsValidation(err))
}

func TestRegistryVotesForUnknownIsZero(t *testing.T) {
	n, err := newRegistry().VotesFor(context.Background(), "missing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRegistrySnapshotEmpty(t *testing.T) {
	snap, err := newRegistry().Snapshot(context.Background())
	require.NoError(t, err)
	assert.Zero(t, snap.Statistics.TotalVotes)
	assert.Nil(t, snap.Statistics.WinnerName)
	assert.Empty(t, snap.Tally)
}

func TestRegistrySetImage(t *testing.T) {
	ctx := context.Background()
	r := newRegistry()
	c, err := r.Create(ctx, candidate.CreateInput{Name: "Ana", Number: 1})
	require.NoError(t, err)

	updated, err := r.SetImage(ctx, c.ID, "/uploads/ana.png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/ana.png", updated.Image)
}
