package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/de-tools/workflow-builder/pkg/models/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "workflows:"

// Store keeps each workflow as a JSON string and maintains a creation-time index:
//
//	<prefix>doc:<id>       => JSON document
//	<prefix>idx:created    => ZSET of ids scored by createdAt (unix millis)
type Store struct {
	client *redis.Client
	prefix string
	newID  func() (uuid.UUID, error)
}

func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{
		client: client,
		prefix: prefix,
		newID:  uuid.NewV7,
	}
}

func (s *Store) keyDoc(id string) string {
	return s.prefix + "doc:" + id
}

func (s *Store) keyCreated() string {
	return s.prefix + "idx:created"
}

func (s *Store) Create(ctx context.Context, wf *store.Workflow) (string, error) {
	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}

	doc := *wf
	doc.ID = id.String()
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal workflow: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.keyDoc(doc.ID), data, 0)
	pipe.ZAdd(ctx, s.keyCreated(), redis.Z{Score: createdScore(&doc), Member: doc.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("save workflow: %w", err)
	}
	return doc.ID, nil
}

func (s *Store) Get(ctx context.Context, id string) (*store.Workflow, error) {
	data, err := s.client.Get(ctx, s.keyDoc(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get workflow: %w", err)
	}
	return decode(data)
}

func (s *Store) List(ctx context.Context) ([]*store.Workflow, error) {
	ids, err := s.client.ZRevRange(ctx, s.keyCreated(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	workflows := make([]*store.Workflow, 0, len(ids))
	if len(ids) == 0 {
		return workflows, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, s.keyDoc(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read workflows: %w", err)
	}

	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			// index entry outlived its document
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		wf, err := decode(data)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	return workflows, nil
}

func (s *Store) Update(ctx context.Context, id string, update store.WorkflowUpdate) error {
	return s.modify(ctx, id, func(wf *store.Workflow) {
		updatedAt := update.UpdatedAt.UTC()
		wf.Title = update.Title
		wf.Steps = update.Steps
		wf.UpdatedAt = &updatedAt
	})
}

func (s *Store) SetRunning(ctx context.Context, id string, running bool) error {
	return s.modify(ctx, id, func(wf *store.Workflow) {
		wf.IsRunning = &running
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.keyDoc(id))
	pipe.ZRem(ctx, s.keyCreated(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

// modify applies fn to the stored document under WATCH so a concurrent
// delete is not resurrected.
func (s *Store) modify(ctx context.Context, id string, fn func(wf *store.Workflow)) error {
	key := s.keyDoc(id)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return store.ErrNotFound
			}
			return err
		}

		wf, err := decode(data)
		if err != nil {
			return err
		}
		fn(wf)

		out, err := json.Marshal(wf)
		if err != nil {
			return fmt.Errorf("marshal workflow: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	return nil
}

func decode(data []byte) (*store.Workflow, error) {
	var wf store.Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("unmarshal workflow: %w", err)
	}
	return &wf, nil
}

func createdScore(wf *store.Workflow) float64 {
	if wf.CreatedAt == nil {
		return 0
	}
	return float64(wf.CreatedAt.UnixMilli())
}
