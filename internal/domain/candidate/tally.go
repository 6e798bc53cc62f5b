package candidate

import (
	"math"
	"sort"
)

// TallyEntry is the per-candidate count and share of the total
type TallyEntry struct {
	CandidateID string  `json:"candidato_id"`
	Name        string  `json:"nombre"`
	Number      int     `json:"numero"`
	Position    string  `json:"cargo"`
	Image       string  `json:"imagen"`
	Votes       int     `json:"votos"`
	Percentage  float64 `json:"porcentaje"`
}

// Statistics summarises the election
type Statistics struct {
	TotalVotes      int     `json:"total_votos"`
	TotalCandidates int     `json:"total_candidatos"`
	WinnerName      *string `json:"candidato_ganador"`
	WinnerVotes     int     `json:"votos_ganador"`
}

// Snapshot is a consistent view of tally and statistics built from one read
type Snapshot struct {
	Statistics Statistics   `json:"estadisticas"`
	Tally      []TallyEntry `json:"candidatos"`
}

// TotalVotes sums every candidate counter
func TotalVotes(candidates []*Candidate) int {
	total := 0
	for _, c := range candidates {
		total += c.Votes
	}
	return total
}

// ComputeTally returns the tally ordered by ballot number. Percentages are
// rounded to two decimals and are all zero when no vote was cast.
func ComputeTally(candidates []*Candidate) []TallyEntry {
	ordered := byNumber(candidates)
	total := TotalVotes(ordered)

	tally := make([]TallyEntry, 0, len(ordered))
	for _, c := range ordered {
		percentage := 0.0
		if total > 0 {
			percentage = round2(float64(c.Votes) / float64(total) * 100)
		}
		tally = append(tally, TallyEntry{
			CandidateID: c.ID,
			Name:        c.Name,
			Number:      c.Number,
			Position:    c.Position,
			Image:       c.Image,
			Votes:       c.Votes,
			Percentage:  percentage,
		})
	}
	return tally
}

// ComputeStatistics picks the candidate with strictly the most votes.
// Candidates are walked in ballot order, so a tie goes to the lowest number.
func ComputeStatistics(candidates []*Candidate) Statistics {
	stats := Statistics{TotalCandidates: len(candidates)}
	for _, c := range byNumber(candidates) {
		stats.TotalVotes += c.Votes
		if c.Votes > stats.WinnerVotes {
			name := c.Name
			stats.WinnerName = &name
			stats.WinnerVotes = c.Votes
		}
	}
	return stats
}

// NewSnapshot computes tally and statistics from the same candidate list
func NewSnapshot(candidates []*Candidate) Snapshot {
	return Snapshot{
		Statistics: ComputeStatistics(candidates),
		Tally:      ComputeTally(candidates),
	}
}

func byNumber(candidates []*Candidate) []*Candidate {
	ordered := make([]*Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Number < ordered[j].Number
	})
	return ordered
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
