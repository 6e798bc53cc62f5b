package candidate

import "context"

// Repository is the candidate collection of the storage backend.
// Missing records are reported with common.ErrNotFound and ballot number
// collisions with common.ErrDuplicateBallotNumber.
type Repository interface {
	Create(ctx context.Context, c *Candidate) error
	GetByID(ctx context.Context, id string) (*Candidate, error)
	GetByNumber(ctx context.Context, number int) (*Candidate, error)
	Exists(ctx context.Context, id string) (bool, error)
	// List returns every candidate ordered by ballot number
	List(ctx context.Context) ([]*Candidate, error)
	Update(ctx context.Context, id string, changes map[string]any) (*Candidate, error)
	Delete(ctx context.Context, id string) error
}
