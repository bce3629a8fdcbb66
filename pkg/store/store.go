package store

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/workflow-builder/pkg/config"
	"github.com/de-tools/workflow-builder/pkg/models/store"
	"github.com/de-tools/workflow-builder/pkg/store/duckdb"
	duckdbworkflow "github.com/de-tools/workflow-builder/pkg/store/duckdb/workflow"
	memoryworkflow "github.com/de-tools/workflow-builder/pkg/store/memory/workflow"
	mongoworkflow "github.com/de-tools/workflow-builder/pkg/store/mongo/workflow"
	redisworkflow "github.com/de-tools/workflow-builder/pkg/store/redis/workflow"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoTimeout = 10 * time.Second

// WorkflowStore is the document store contract behind the workflow service.
// Get, Update and SetRunning return store.ErrNotFound for unknown ids;
// Delete does not.
type WorkflowStore interface {
	Create(ctx context.Context, wf *store.Workflow) (string, error)
	Get(ctx context.Context, id string) (*store.Workflow, error)
	List(ctx context.Context) ([]*store.Workflow, error)
	Update(ctx context.Context, id string, update store.WorkflowUpdate) error
	SetRunning(ctx context.Context, id string, running bool) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	_ WorkflowStore = (*mongoworkflow.Store)(nil)
	_ WorkflowStore = (*duckdbworkflow.Store)(nil)
	_ WorkflowStore = (*redisworkflow.Store)(nil)
	_ WorkflowStore = (*memoryworkflow.Store)(nil)
)

// Open connects the configured backend. The returned store owns its client
// and releases it on Close.
func Open(ctx context.Context, cfg config.Store) (WorkflowStore, error) {
	logger := zerolog.Ctx(ctx)

	switch cfg.Driver {
	case "mongo":
		timeout := cfg.Mongo.Timeout
		if timeout <= 0 {
			timeout = defaultMongoTimeout
		}
		connectCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().
			ApplyURI(cfg.Mongo.URI).
			SetTimeout(timeout))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		logger.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("connected to mongo")
		return mongoworkflow.NewStore(client, cfg.Mongo.Database, cfg.Mongo.Collection), nil

	case "duckdb":
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.DuckDB.Path})
		if err != nil {
			return nil, fmt.Errorf("failed to create DuckDB instance: %w", err)
		}
		s, err := duckdbworkflow.NewStore(db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create workflow store: %w", err)
		}
		logger.Info().Str("path", cfg.DuckDB.Path).Msg("opened duckdb")
		return s, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")
		return redisworkflow.NewStore(client, cfg.Redis.Prefix), nil

	case "memory":
		logger.Warn().Msg("using in-memory workflow store, data is lost on restart")
		return memoryworkflow.NewStore(), nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
}
