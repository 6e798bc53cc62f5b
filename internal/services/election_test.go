package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/domain/eligibility"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
	"github.com/gravadigital/votacion-api/internal/lock"
	"github.com/gravadigital/votacion-api/internal/realtime"
	"github.com/gravadigital/votacion-api/internal/storage/memory"
)

type recorder struct {
	mu     sync.Mutex
	msgs   []any
	source realtime.Snapshotter
}

func (r *recorder) Publish(ctx context.Context, build func(candidate.Snapshot) any) error {
	snap, err := r.source.Snapshot(ctx)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, build(snap))
	return nil
}

func (r *recorder) events() []realtime.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]realtime.Event, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.(realtime.Event))
	}
	return out
}

var campus = eligibility.Geofence{
	Center:       eligibility.Point{Lat: -12.047505186140151, Lng: -75.19906082214352},
	RadiusMeters: 1000,
}

func newService(t *testing.T, policy Policy) (*ElectionService, *recorder, *candidate.Candidate) {
	t.Helper()
	store := memory.NewContainer()
	registry := candidate.NewRegistry(store.Candidates())
	ledger := vote.NewLedger(store.Votes(), registry, lock.NewLocal(time.Second), vote.Options{NormalizeEmail: true})
	rec := &recorder{source: registry}

	c, err := registry.Create(context.Background(), candidate.CreateInput{Name: "Ana", Number: 1})
	require.NoError(t, err)

	if policy.InstitutionalDomains == nil {
		policy.InstitutionalDomains = []string{"continental.edu.pe", "uc.edu.pe"}
	}
	policy.Campus = campus
	return NewElectionService(registry, ledger, rec, policy), rec, c
}

func ptr(f float64) *float64 { return &f }

func TestCastVoteBroadcastsOnce(t *testing.T) {
	svc, rec, c := newService(t, Policy{RequireInstitutionalEmail: true})

	v, err := svc.CastVote(context.Background(), vote.CastRequest{UserID: "U1", CandidateID: c.ID, Email: "e1@uc.edu.pe"})
	require.NoError(t, err)
	assert.Equal(t, c.ID, v.CandidateID)

	events := rec.events()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.TypeVoteRegistered, events[0].Type)
	assert.Equal(t, c.ID, events[0].CandidateID)
	assert.Equal(t, 1, events[0].TotalVotes)
	require.Len(t, events[0].Tally, 1)
	assert.Equal(t, 100.0, events[0].Tally[0].Percentage)

	_, err = svc.CastVote(context.Background(), vote.CastRequest{UserID: "U1", CandidateID: c.ID, Email: "e2@uc.edu.pe"})
	assert.ErrorIs(t, err, common.ErrAlreadyVoted)
	assert.Len(t, rec.events(), 1, "rejected votes are not broadcast")
}

func TestCastVoteInstitutionalPolicy(t *testing.T) {
	svc, rec, c := newService(t, Policy{RequireInstitutionalEmail: true})

	_, err := svc.CastVote(context.Background(), vote.CastRequest{UserID: "U1", CandidateID: c.ID, Email: "x@gmail.com"})
	assert.ErrorIs(t, err, common.ErrNotEligible)
	assert.Empty(t, rec.events())

	relaxed, _, c2 := newService(t, Policy{})
	_, err = relaxed.CastVote(context.Background(), vote.CastRequest{UserID: "U1", CandidateID: c2.ID, Email: "x@gmail.com"})
	assert.NoError(t, err)
}

func TestCastVoteGeofencePolicy(t *testing.T) {
	svc, _, c := newService(t, Policy{RequireGeofence: true})

	_, err := svc.CastVote(context.Background(), vote.CastRequest{UserID: "U1", CandidateID: c.ID, Email: "e1@uc.edu.pe"})
	assert.ErrorIs(t, err, common.ErrNotEligible)

	_, err = svc.CastVote(context.Background(), vote.CastRequest{UserID: "U1", CandidateID: c.ID, Email: "e1@uc.edu.pe", Lat: ptr(-12.0753), Lng: ptr(-77.0821)})
	var ineligible *common.IneligibleError
	require.True(t, errors.As(err, &ineligible))
	assert.Contains(t, ineligible.Reason, "fuera del campus")

	_, err = svc.CastVote(context.Background(), vote.CastRequest{UserID: "U1", CandidateID: c.ID, Email: "e1@uc.edu.pe", Lat: ptr(-12.0475), Lng: ptr(-75.1991)})
	assert.NoError(t, err)
}

func TestCastVoteValidationBeforeEligibility(t *testing.T) {
	svc, _, c := newService(t, Policy{RequireInstitutionalEmail: true})

	_, err := svc.CastVote(context.Background(), vote.CastRequest{UserID: "U1", CandidateID: c.ID, Email: "not-an-email"})
	assert.True(t, common.IsValidation(err))
}

func TestResetElectionBroadcasts(t *testing.T) {
	svc, rec, c := newService(t, Policy{})
	_, err := svc.CastVote(context.Background(), vote.CastRequest{UserID: "U1", CandidateID: c.ID, Email: "e1@uc.edu.pe"})
	require.NoError(t, err)

	deleted, err := svc.ResetElection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	events := rec.events()
	require.Len(t, events, 2)
	assert.Equal(t, realtime.TypeElectionReset, events[1].Type)
	assert.Zero(t, events[1].TotalVotes)
	require.NotNil(t, events[1].Deleted)
	assert.Equal(t, 1, *events[1].Deleted)

	n, err := svc.VotesFor(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCanVote(t *testing.T) {
	ctx := context.Background()
	svc, _, c := newService(t, Policy{RequireInstitutionalEmail: true})

	res, err := svc.CanVote(ctx, "e1@uc.edu.pe", nil, nil)
	require.NoError(t, err)
	assert.True(t, res.CanVote)
	assert.True(t, res.Institutional)
	assert.Nil(t, res.Location)

	res, err = svc.CanVote(ctx, "e1@uc.edu.pe", ptr(-12.0753), ptr(-77.0821))
	require.NoError(t, err)
	assert.False(t, res.CanVote)
	require.NotNil(t, res.Location)
	assert.False(t, res.Location.Inside)

	res, err = svc.CanVote(ctx, "x@gmail.com", nil, nil)
	require.NoError(t, err)
	assert.False(t, res.CanVote)

	_, err = svc.CastVote(ctx, vote.CastRequest{UserID: "U1", CandidateID: c.ID, Email: "e1@uc.edu.pe"})
	require.NoError(t, err)
	res, err = svc.CanVote(ctx, "E1@uc.edu.pe", nil, nil)
	require.NoError(t, err)
	assert.False(t, res.CanVote)
	assert.True(t, res.AlreadyVoted)

	_, err = svc.CanVote(ctx, "bad", nil, nil)
	assert.True(t, common.IsValidation(err))
	_, err = svc.CanVote(ctx, "e9@uc.edu.pe", ptr(1), nil)
	assert.True(t, common.IsValidation(err))
}

func TestCheckEmailAndLocation(t *testing.T) {
	svc, _, _ := newService(t, Policy{})

	assert.True(t, svc.CheckEmail("a@continental.edu.pe").Institutional)
	assert.False(t, svc.CheckEmail("a@gmail.com").Institutional)

	loc, err := svc.CheckLocation(-12.047505186140151, -75.19906082214352)
	require.NoError(t, err)
	assert.True(t, loc.Inside)
	assert.Zero(t, loc.Distance)

	_, err = svc.CheckLocation(120, 0)
	assert.True(t, common.IsValidation(err))
}
