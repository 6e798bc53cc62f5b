// Package memory keeps candidates and votes in process. It backs tests and
// single-instance demos; everything is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
	"github.com/gravadigital/votacion-api/internal/logger"
)

// state is shared by both repositories so Record and Reset can touch
// votes and counters under one lock.
type state struct {
	mu         sync.RWMutex
	candidates map[string]*candidate.Candidate
	votes      map[string]*vote.Vote
	byUserID   map[string]string
	byEmail    map[string]string
}

func newState() *state {
	st := &state{}
	st.clear()
	return st
}

// clear replaces every map. Callers hold mu or own st exclusively.
func (st *state) clear() {
	st.candidates = make(map[string]*candidate.Candidate)
	st.votes = make(map[string]*vote.Vote)
	st.byUserID = make(map[string]string)
	st.byEmail = make(map[string]string)
}

// Container groups the in-memory repositories
type Container struct {
	st         *state
	log        *log.Logger
	candidates *CandidateRepository
	votes      *VoteRepository
}

// NewContainer returns an empty store
func NewContainer() *Container {
	st := newState()
	return &Container{
		st:         st,
		log:        logger.Storage("memory"),
		candidates: &CandidateRepository{st: st},
		votes:      &VoteRepository{st: st},
	}
}

// Candidates returns the candidate repository
func (c *Container) Candidates() candidate.Repository {
	return c.candidates
}

// Votes returns the vote repository
func (c *Container) Votes() vote.Repository {
	return c.votes
}

// Health always succeeds
func (c *Container) Health(ctx context.Context) error {
	return ctx.Err()
}

// Close drops every record
func (c *Container) Close() error {
	c.st.mu.Lock()
	defer c.st.mu.Unlock()
	c.log.Info("Closing in-memory store", "candidates", len(c.st.candidates), "votes", len(c.st.votes))
	c.st.clear()
	return nil
}

// Info describes the backend for the status endpoint
func (c *Container) Info() map[string]any {
	c.st.mu.RLock()
	defer c.st.mu.RUnlock()
	return map[string]any{
		"type":       "memory",
		"candidates": len(c.st.candidates),
		"votes":      len(c.st.votes),
	}
}

func sortedCandidates(m map[string]*candidate.Candidate) []*candidate.Candidate {
	out := make([]*candidate.Candidate, 0, len(m))
	for _, c := range m {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Number != out[j].Number {
			return out[i].Number < out[j].Number
		}
		return out[i].ID < out[j].ID
	})
	return out
}
