package vote

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/logger"
	"github.com/gravadigital/votacion-api/internal/validation"
)

const defaultBatchSize = 500

// Options tune the ledger
type Options struct {
	BatchSize      int
	NormalizeEmail bool
}

// CastRequest is one voter's ballot
type CastRequest struct {
	UserID      string
	CandidateID string
	Email       string
	IPAddress   string
	Lat         *float64
	Lng         *float64
}

// Ledger enforces one vote per identity and per email.
type Ledger struct {
	votes      Repository
	candidates CandidateChecker
	locker     Locker
	validator  validation.VoteValidation
	opts       Options
	log        *log.Logger
	now        func() time.Time
}

func NewLedger(votes Repository, candidates CandidateChecker, locker Locker, opts Options) *Ledger {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	return &Ledger{
		votes:      votes,
		candidates: candidates,
		locker:     locker,
		validator:  validation.VoteValidation{},
		opts:       opts,
		log:        logger.Service("vote_ledger"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeEmail applies the ledger's email policy
func (l *Ledger) NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if l.opts.NormalizeEmail {
		return strings.ToLower(email)
	}
	return email
}

// HasVoted reports whether a vote exists whose field equals key
func (l *Ledger) HasVoted(ctx context.Context, key string, field Field) (bool, error) {
	if !field.Valid() {
		return false, common.NewValidationError("field", "must be user_id or correo")
	}
	if strings.TrimSpace(key) == "" {
		return false, common.NewValidationError(string(field), "is required")
	}
	if field == FieldEmail {
		key = l.NormalizeEmail(key)
	}
	return l.votes.ExistsBy(ctx, field, key)
}

// CastVote runs the acceptance protocol: identity check, email check,
// candidate check, then an atomic record-and-increment. All of it happens
// while holding the locks of both identity keys.
func (l *Ledger) CastVote(ctx context.Context, req CastRequest) (*Vote, error) {
	if err := l.Validate(req); err != nil {
		return nil, err
	}
	email := l.NormalizeEmail(req.Email)

	release, err := l.locker.Acquire(ctx, "vote:user:"+req.UserID, "vote:email:"+email)
	if err != nil {
		l.log.Warn("could not lock voter identity", "user_id", req.UserID, "error", err)
		return nil, err
	}
	defer release()

	voted, err := l.votes.ExistsBy(ctx, FieldUserID, req.UserID)
	if err != nil {
		return nil, err
	}
	if voted {
		l.log.Info("vote rejected: user already voted", "user_id", req.UserID)
		return nil, common.ErrAlreadyVoted
	}

	used, err := l.votes.ExistsBy(ctx, FieldEmail, email)
	if err != nil {
		return nil, err
	}
	if used {
		l.log.Info("vote rejected: email already used", "user_id", req.UserID)
		return nil, common.ErrEmailAlreadyUsed
	}

	exists, err := l.candidates.Exists(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if !exists {
		l.log.Info("vote rejected: unknown candidate", "candidate_id", req.CandidateID)
		return nil, common.ErrCandidateNotFound
	}

	v := NewVote(req.UserID, req.CandidateID, email, l.now())
	v.IPAddress = req.IPAddress
	v.Lat, v.Lng = req.Lat, req.Lng

	if err := l.votes.Record(ctx, v); err != nil {
		l.log.Warn("vote not recorded", "user_id", req.UserID, "candidate_id", req.CandidateID, "error", err)
		return nil, err
	}

	l.log.Info("vote registered", "vote_id", v.ID, "candidate_id", v.CandidateID)
	return v, nil
}

// ResetElection deletes every vote and zeroes every counter
func (l *Ledger) ResetElection(ctx context.Context) (int, error) {
	deleted, err := l.votes.Reset(ctx, l.opts.BatchSize)
	if err != nil {
		l.log.Error("election reset failed", "error", err)
		return 0, err
	}
	l.log.Warn("election reset", "votes_deleted", deleted)
	return deleted, nil
}

// Count returns the number of recorded votes
func (l *Ledger) Count(ctx context.Context) (int64, error) {
	return l.votes.Count(ctx)
}

// Validate checks the shape of a ballot without touching the store
func (l *Ledger) Validate(req CastRequest) error {
	if err := l.validator.ValidateUserID(req.UserID); err != nil {
		return err
	}
	if err := l.validator.ValidateCandidateID(req.CandidateID); err != nil {
		return err
	}
	if err := l.validator.ValidateCorreo(strings.TrimSpace(req.Email)); err != nil {
		return err
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		return common.NewValidationError("lat", "lat and lng must be given together")
	}
	if req.Lat != nil {
		return validation.ValidateLatLng(*req.Lat, *req.Lng)
	}
	return nil
}
