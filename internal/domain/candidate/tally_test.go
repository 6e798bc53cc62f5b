package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(votes ...int) []*Candidate {
	names := []string{"Ana", "Beto", "Carla", "Dario"}
	candidates := make([]*Candidate, 0, len(votes))
	// inserted in reverse ballot order on purpose
	for i := len(votes) - 1; i >= 0; i-- {
		candidates = append(candidates, &Candidate{
			ID:     names[i],
			Name:   names[i],
			Number: i + 1,
			Votes:  votes[i],
		})
	}
	return candidates
}

func TestComputeTallyOrdersByNumber(t *testing.T) {
	tally := ComputeTally(sample(1, 2, 3))

	require.Len(t, tally, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{tally[0].Number, tally[1].Number, tally[2].Number})
	assert.Equal(t, "Ana", tally[0].CandidateID)
}

func TestComputeTallyPercentagesSumTo100(t *testing.T) {
	tests := [][]int{
		{1, 1, 1},
		{1, 2},
		{7, 0, 3, 11},
		{1, 0, 0},
	}

	for _, votes := range tests {
		tally := ComputeTally(sample(votes...))
		sum := 0.0
		for _, e := range tally {
			sum += e.Percentage
		}
		assert.InDelta(t, 100.0, sum, 0.02, "votes %v", votes)
	}
}

func TestComputeTallyRounding(t *testing.T) {
	tally := ComputeTally(sample(1, 2))

	assert.Equal(t, 33.33, tally[0].Percentage)
	assert.Equal(t, 66.67, tally[1].Percentage)
}

func TestComputeTallyZeroVotes(t *testing.T) {
	for _, e := range ComputeTally(sample(0, 0, 0)) {
		assert.Zero(t, e.Percentage)
	}
	assert.Empty(t, ComputeTally(nil))
}

func TestComputeStatistics(t *testing.T) {
	stats := ComputeStatistics(sample(2, 5, 1))

	assert.Equal(t, 8, stats.TotalVotes)
	assert.Equal(t, 3, stats.TotalCandidates)
	require.NotNil(t, stats.WinnerName)
	assert.Equal(t, "Beto", *stats.WinnerName)
	assert.Equal(t, 5, stats.WinnerVotes)
}

func TestComputeStatisticsTieGoesToLowestNumber(t *testing.T) {
	stats := ComputeStatistics(sample(0, 4, 4))

	require.NotNil(t, stats.WinnerName)
	assert.Equal(t, "Beto", *stats.WinnerName)
}

func TestComputeStatisticsNoVotes(t *testing.T) {
	stats := ComputeStatistics(sample(0, 0))

	assert.Nil(t, stats.WinnerName)
	assert.Zero(t, stats.WinnerVotes)
	assert.Equal(t, 2, stats.TotalCandidates)
}

func TestPatchChanges(t *testing.T) {
	var p Patch
	assert.True(t, p.IsEmpty())

	p.Name.Set, p.Name.Value = true, ""
	p.Position.Set, p.Position.Null = true, true

	changes := p.Changes()
	assert.Equal(t, map[string]any{FieldNombre: "", FieldCargo: ""}, changes)

	c := &Candidate{Name: "Ana", Position: "Presidente", Vision: "v"}
	ApplyChanges(c, changes)
	assert.Equal(t, "", c.Name)
	assert.Equal(t, "", c.Position)
	assert.Equal(t, "v", c.Vision)
}
