// Package mongo stores candidates and votes in MongoDB. Uniqueness of ballot
// numbers, voter ids and emails is enforced by unique indexes.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/gravadigital/votacion-api/internal/config"
	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
	"github.com/gravadigital/votacion-api/internal/logger"
)

const (
	candidatesCollection = "candidates"
	votesCollection      = "votes"
)

// Container groups the MongoDB repositories over one client
type Container struct {
	client        *mongo.Client
	db            *mongo.Database
	log           *log.Logger
	candidateRepo *CandidateRepository
	voteRepo      *VoteRepository
}

// NewContainer connects to MongoDB and ensures the indexes exist
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.Storage("mongo")
	log.Info("Initializing MongoDB repository container...", "database", cfg.Mongo.Database)

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Storage.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.Mongo.Database)
	if err := EnsureIndexes(connectCtx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Info("MongoDB repository container initialized successfully")
	return &Container{
		client:        client,
		db:            db,
		log:           log,
		candidateRepo: NewCandidateRepository(db.Collection(candidatesCollection)),
		voteRepo:      NewVoteRepository(db.Collection(votesCollection), db.Collection(candidatesCollection)),
	}, nil
}

// EnsureIndexes creates the unique indexes both collections rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(candidatesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: candidate.FieldNumero, Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_candidates_numero"),
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(votesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: string(vote.FieldUserID), Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_votes_user_id"),
		},
		{
			Keys:    bson.D{{Key: string(vote.FieldEmail), Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_votes_correo"),
		},
		{
			Keys:    bson.D{{Key: "candidato_id", Value: 1}},
			Options: options.Index().SetName("idx_votes_candidato"),
		},
	})
	return err
}

// Candidates returns the candidate repository
func (c *Container) Candidates() candidate.Repository {
	return c.candidateRepo
}

// Votes returns the vote repository
func (c *Container) Votes() vote.Repository {
	return c.voteRepo
}

// Health pings the primary
func (c *Container) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		c.log.Error("MongoDB health check failed", "error", err)
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// Close disconnects the client
func (c *Container) Close() error {
	c.log.Info("Closing MongoDB repository container...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// Info describes the backend for the status endpoint
func (c *Container) Info() map[string]any {
	return map[string]any{
		"type":     "mongo",
		"database": c.db.Name(),
	}
}
