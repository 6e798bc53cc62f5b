package postgres

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/votacion-api/internal/config"
	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
	"github.com/gravadigital/votacion-api/internal/logger"
)

// Container groups the PostgreSQL repositories over one connection pool
type Container struct {
	db            *gorm.DB
	log           *log.Logger
	candidateRepo *PostgresCandidateRepository
	voteRepo      *PostgresVoteRepository
}

// NewContainer connects, migrates and health-checks the database
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		_ = Close(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)
	if err := container.Health(ctx); err != nil {
		log.Error("Container health check failed", "error", err)
		_ = Close(db)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:            db,
		log:           logger.Repository("postgres_container"),
		candidateRepo: NewPostgresCandidateRepository(db),
		voteRepo:      NewPostgresVoteRepository(db),
	}
}

// Candidates returns the candidate repository
func (c *Container) Candidates() candidate.Repository {
	return c.candidateRepo
}

// Votes returns the vote repository
func (c *Container) Votes() vote.Repository {
	return c.voteRepo
}

// Health pings the database and checks both tables are readable
func (c *Container) Health(ctx context.Context) error {
	if err := HealthCheck(ctx, c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	for _, table := range []string{"candidates", "votes"} {
		var count int64
		if err := c.db.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			c.log.Error("Repository health check failed", "repository", table, "error", err)
			return fmt.Errorf("repository %s health check failed: %w", table, err)
		}
	}

	metrics := GetDatabaseMetrics(c.db)
	c.log.Debug("Database connection metrics",
		"open_connections", metrics.OpenConnections,
		"in_use_connections", metrics.InUseConnections,
		"idle_connections", metrics.IdleConnections)
	return nil
}

// Close shuts down the connection pool
func (c *Container) Close() error {
	c.log.Info("Closing PostgreSQL repository container...")
	if err := Close(c.db); err != nil {
		c.log.Error("Failed to close database connection", "error", err)
		return err
	}
	c.db = nil
	return nil
}

// Info describes the backend for the status endpoint
func (c *Container) Info() map[string]any {
	return map[string]any{
		"type":     "postgres",
		"database": GetConnectionInfo(c.db),
	}
}

// GetDB returns the underlying database connection
func (c *Container) GetDB() *gorm.DB {
	return c.db
}
