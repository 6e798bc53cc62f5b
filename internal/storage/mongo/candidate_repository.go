package mongo

import (
	"context"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/common"
	"github.com/gravadigital/votacion-api/internal/logger"
)

// CandidateRepository implements candidate.Repository on a collection
type CandidateRepository struct {
	coll *mongo.Collection
	log  *log.Logger
}

func NewCandidateRepository(coll *mongo.Collection) *CandidateRepository {
	return &CandidateRepository{
		coll: coll,
		log:  logger.Repository("mongo_candidate"),
	}
}

func (r *CandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		r.log.Error("failed to create candidate", "candidate_id", c.ID, "error", err)
		return translateError("create candidate", err)
	}
	return nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*candidate.Candidate, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "get candidate")
}

func (r *CandidateRepository) GetByNumber(ctx context.Context, number int) (*candidate.Candidate, error) {
	return r.findOne(ctx, bson.M{candidate.FieldNumero: number}, "get candidate by numero")
}

func (r *CandidateRepository) findOne(ctx context.Context, filter bson.M, op string) (*candidate.Candidate, error) {
	var c candidate.Candidate
	if err := r.coll.FindOne(ctx, filter).Decode(&c); err != nil {
		return nil, translateError(op, err)
	}
	return &c, nil
}

func (r *CandidateRepository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, translateError("check candidate", err)
	}
	return n > 0, nil
}

func (r *CandidateRepository) List(ctx context.Context) ([]*candidate.Candidate, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: candidate.FieldNumero, Value: 1}}))
	if err != nil {
		r.log.Error("failed to list candidates", "error", err)
		return nil, translateError("list candidates", err)
	}

	candidates := make([]*candidate.Candidate, 0)
	if err := cursor.All(ctx, &candidates); err != nil {
		return nil, translateError("decode candidates", err)
	}
	return candidates, nil
}

func (r *CandidateRepository) Update(ctx context.Context, id string, changes map[string]any) (*candidate.Candidate, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated candidate.Candidate
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(changes)}, opts).Decode(&updated)
	if err != nil {
		return nil, translateError("update candidate", err)
	}
	return &updated, nil
}

func (r *CandidateRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError("delete candidate", err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
