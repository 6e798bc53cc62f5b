package vote

import "context"

// Repository is the vote collection of the storage backend.
type Repository interface {
	ExistsBy(ctx context.Context, field Field, key string) (bool, error)
	// Record stores v and increments its candidate's counter as one operation.
	// It fails with common.ErrCandidateNotFound, common.ErrAlreadyVoted or
	// common.ErrEmailAlreadyUsed and leaves nothing behind when it does.
	Record(ctx context.Context, v *Vote) error
	Count(ctx context.Context) (int64, error)
	// Reset deletes every vote and zeroes every candidate counter, issuing
	// at most batchSize writes per batch. It returns the deleted vote count.
	Reset(ctx context.Context, batchSize int) (int, error)
}

// CandidateChecker is the part of the candidate registry the ledger needs
type CandidateChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Locker serialises work on a set of identity keys across requests.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}
