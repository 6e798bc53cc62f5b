// Package realtime fans tally updates out to live viewers.
package realtime

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/logger"
)

// Message types pushed to viewers
const (
	TypeSnapshot       = "snapshot"
	TypeVoteRegistered = "vote_registered"
	TypeElectionReset  = "election_reset"
	TypePong           = "pong"
)

// Pong answers a viewer's "ping"
var Pong = struct {
	Type string `json:"type"`
}{Type: TypePong}

// Conn is one viewer. Implementations must allow concurrent WriteJSON calls.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Snapshotter provides the current tally for newly connected viewers
type Snapshotter interface {
	Snapshot(ctx context.Context) (candidate.Snapshot, error)
}

// Event is a message pushed to every viewer
type Event struct {
	Type        string                 `json:"type"`
	CandidateID string                 `json:"candidato_id,omitempty"`
	Statistics  *candidate.Statistics  `json:"estadisticas,omitempty"`
	TotalVotes  int                    `json:"total_votos"`
	Tally       []candidate.TallyEntry `json:"candidatos"`
	Deleted     *int                   `json:"votos_eliminados,omitempty"`
}

// SnapshotEvent builds the message sent on connect
func SnapshotEvent(s candidate.Snapshot) Event {
	stats := s.Statistics
	return Event{
		Type:       TypeSnapshot,
		Statistics: &stats,
		TotalVotes: stats.TotalVotes,
		Tally:      s.Tally,
	}
}

// VoteRegisteredEvent builds the message sent after an accepted vote
func VoteRegisteredEvent(candidateID string, s candidate.Snapshot) Event {
	return Event{
		Type:        TypeVoteRegistered,
		CandidateID: candidateID,
		TotalVotes:  s.Statistics.TotalVotes,
		Tally:       s.Tally,
	}
}

// ElectionResetEvent builds the message sent after a reset
func ElectionResetEvent(deleted int, s candidate.Snapshot) Event {
	return Event{
		Type:       TypeElectionReset,
		TotalVotes: s.Statistics.TotalVotes,
		Tally:      s.Tally,
		Deleted:    &deleted,
	}
}

// Hub holds the set of live viewers
type Hub struct {
	mu    sync.RWMutex
	conns map[Conn]struct{}

	// order serialises tally reads with sends, so every viewer receives
	// states in the order they were read
	order sync.Mutex

	snapshot Snapshotter
	log      *log.Logger
}

func NewHub(snapshot Snapshotter) *Hub {
	return &Hub{
		conns:    make(map[Conn]struct{}),
		snapshot: snapshot,
		log:      logger.Realtime(),
	}
}

// Connect registers conn and pushes the current snapshot to it. The
// connection stays registered when the snapshot cannot be built.
func (h *Hub) Connect(ctx context.Context, conn Conn) error {
	h.order.Lock()
	defer h.order.Unlock()

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	total := len(h.conns)
	h.mu.Unlock()

	h.log.Debug("viewer connected", "viewers", total)

	snap, err := h.snapshot.Snapshot(ctx)
	if err != nil {
		h.log.Warn("could not build snapshot for new viewer", "error", err)
		return err
	}
	if err := conn.WriteJSON(SnapshotEvent(snap)); err != nil {
		h.log.Debug("failed to send snapshot", "error", err)
		h.Disconnect(conn)
		return err
	}
	return nil
}

// Publish reads the current tally, builds a message from it and sends it
// to every viewer. Nothing is sent when the tally cannot be read.
func (h *Hub) Publish(ctx context.Context, build func(candidate.Snapshot) any) error {
	h.order.Lock()
	defer h.order.Unlock()

	snap, err := h.snapshot.Snapshot(ctx)
	if err != nil {
		return err
	}
	h.send(build(snap))
	return nil
}

// Disconnect removes conn; removing an unknown connection is a no-op
func (h *Hub) Disconnect(conn Conn) {
	h.mu.Lock()
	_, ok := h.conns[conn]
	delete(h.conns, conn)
	total := len(h.conns)
	h.mu.Unlock()

	if ok {
		_ = conn.Close()
		h.log.Debug("viewer disconnected", "viewers", total)
	}
}

// Broadcast sends msg to every viewer. Failed sends are logged and the
// connection dropped; the caller never sees an error.
func (h *Hub) Broadcast(msg any) {
	h.order.Lock()
	defer h.order.Unlock()
	h.send(msg)
}

func (h *Hub) send(msg any) {
	h.mu.RLock()
	targets := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	failed := 0
	for _, c := range targets {
		if err := c.WriteJSON(msg); err != nil {
			failed++
			h.Disconnect(c)
		}
	}
	if failed > 0 {
		h.log.Debug("broadcast partially failed", "viewers", len(targets), "failed", failed)
	}
}

// Count returns the number of live viewers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close disconnects every viewer
func (h *Hub) Close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[Conn]struct{})
	h.mu.Unlock()

	for c := range conns {
		_ = c.Close()
	}
}
