package mongo

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
	"github.com/gravadigital/votacion-api/internal/logger"
)

// VoteRepository implements vote.Repository. It needs the candidate
// collection to maintain the denormalised counters.
type VoteRepository struct {
	votes      *mongo.Collection
	candidates *mongo.Collection
	log        *log.Logger
}

func NewVoteRepository(votes, candidates *mongo.Collection) *VoteRepository {
	return &VoteRepository{
		votes:      votes,
		candidates: candidates,
		log:        logger.Repository("mongo_vote"),
	}
}

func (r *VoteRepository) ExistsBy(ctx context.Context, field vote.Field, key string) (bool, error) {
	if !field.Valid() {
		return false, common.NewValidationError("field", "must be user_id or correo")
	}
	n, err := r.votes.CountDocuments(ctx, bson.M{string(field): key}, options.Count().SetLimit(1))
	if err != nil {
		return false, translateError("check vote", err)
	}
	return n > 0, nil
}

// Record inserts the vote, then increments the counter. If the increment
// finds no candidate or fails, the vote is deleted again.
func (r *VoteRepository) Record(ctx context.Context, v *vote.Vote) error {
	if err := v.Validate(); err != nil {
		return err
	}

	n, err := r.candidates.CountDocuments(ctx, bson.M{"_id": v.CandidateID}, options.Count().SetLimit(1))
	if err != nil {
		return translateError("check candidate", err)
	}
	if n == 0 {
		return common.ErrCandidateNotFound
	}

	if _, err := r.votes.InsertOne(ctx, v); err != nil {
		return translateError("insert vote", err)
	}

	result, err := r.candidates.UpdateOne(ctx,
		bson.M{"_id": v.CandidateID},
		bson.M{
			"$inc": bson.M{candidate.FieldVotos: 1},
			"$set": bson.M{candidate.FieldUpdatedAt: time.Now().UTC()},
		})
	if err == nil && result.MatchedCount == 1 {
		return nil
	}

	r.compensate(v.ID)
	if err != nil {
		return translateError("increment counter", err)
	}
	return common.ErrCandidateNotFound
}

// compensate runs detached from the request so a cancelled request
// still cleans up.
func (r *VoteRepository) compensate(voteID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.votes.DeleteOne(ctx, bson.M{"_id": voteID}); err != nil {
		r.log.Error("failed to remove vote after counter update failed", "vote_id", voteID, "error", err)
	}
}

func (r *VoteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.votes.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, translateError("count votes", err)
	}
	return n, nil
}

// Reset deletes votes and zeroes counters batchSize documents at a time.
// There is no surrounding transaction: a failure midway leaves a partially
// reset election, which a retry completes.
func (r *VoteRepository) Reset(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	deleted := 0
	for {
		ids, err := r.batchIDs(ctx, r.votes, bson.M{}, batchSize)
		if err != nil {
			return deleted, translateError("list votes", err)
		}
		if len(ids) == 0 {
			break
		}
		result, err := r.votes.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return deleted, translateError("delete votes", err)
		}
		deleted += int(result.DeletedCount)
	}

	now := time.Now().UTC()
	for {
		ids, err := r.batchIDs(ctx, r.candidates, bson.M{candidate.FieldVotos: bson.M{"$ne": 0}}, batchSize)
		if err != nil {
			return deleted, translateError("list candidates", err)
		}
		if len(ids) == 0 {
			break
		}

		models := make([]mongo.WriteModel, 0, len(ids))
		for _, id := range ids {
			models = append(models, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": id}).
				SetUpdate(bson.M{"$set": bson.M{candidate.FieldVotos: 0, candidate.FieldUpdatedAt: now}}))
		}
		if _, err := r.candidates.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
			return deleted, translateError("zero counters", err)
		}
	}

	return deleted, nil
}

func (r *VoteRepository) batchIDs(ctx context.Context, coll *mongo.Collection, filter bson.M, limit int) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetLimit(int64(limit))

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}
