package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/workflow-builder/pkg/adapters"
	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/de-tools/workflow-builder/pkg/models/store"
	storage "github.com/de-tools/workflow-builder/pkg/store"
	"github.com/rs/zerolog"
)

type Service interface {
	Save(ctx context.Context, draft domain.WorkflowDraft) (string, error)
	List(ctx context.Context) ([]domain.Workflow, error)
	Get(ctx context.Context, id string) (*domain.Workflow, error)
	Update(ctx context.Context, id string, draft domain.WorkflowDraft) error
	UpdateStatus(ctx context.Context, id string, isRunning bool) error
	Remove(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type DefaultService struct {
	store storage.WorkflowStore
	now   func() time.Time
}

func NewService(s storage.WorkflowStore) *DefaultService {
	return &DefaultService{
		store: s,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Save stores a new workflow and returns the id assigned by the store.
// The draft is persisted as given; callers validate beforehand.
func (s *DefaultService) Save(ctx context.Context, draft domain.WorkflowDraft) (string, error) {
	now := s.now()
	id, err := s.store.Create(ctx, &store.Workflow{
		Title:     draft.Title,
		Steps:     adapters.MapDomainStepsToStore(draft.Steps),
		CreatedAt: &now,
		UpdatedAt: &now,
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to save workflow")
		return "", fmt.Errorf("failed to save workflow: %w", err)
	}
	return id, nil
}

// List returns all workflows, most recently created first.
func (s *DefaultService) List(ctx context.Context) ([]domain.Workflow, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to list workflows")
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	workflows := make([]domain.Workflow, 0, len(docs))
	for _, doc := range docs {
		workflows = append(workflows, *adapters.MapStoreWorkflowToDomain(doc))
	}
	return workflows, nil
}

func (s *DefaultService) Get(ctx context.Context, id string) (*domain.Workflow, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.ErrWorkflowNotFound
		}
		zerolog.Ctx(ctx).Error().Err(err).Str("workflow_id", id).Msg("failed to get workflow")
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}
	return adapters.MapStoreWorkflowToDomain(doc), nil
}

// Update overwrites title and steps and refreshes updatedAt. createdAt is kept.
func (s *DefaultService) Update(ctx context.Context, id string, draft domain.WorkflowDraft) error {
	err := s.store.Update(ctx, id, store.WorkflowUpdate{
		Title:     draft.Title,
		Steps:     adapters.MapDomainStepsToStore(draft.Steps),
		UpdatedAt: s.now(),
	})
	return s.mutationError(ctx, id, "update workflow", err)
}

// UpdateStatus sets the isRunning flag. Nothing else reacts to it.
func (s *DefaultService) UpdateStatus(ctx context.Context, id string, isRunning bool) error {
	return s.mutationError(ctx, id, "update workflow status", s.store.SetRunning(ctx, id, isRunning))
}

// Remove deletes the workflow. Removing an unknown id succeeds.
func (s *DefaultService) Remove(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("workflow_id", id).Msg("failed to delete workflow")
		return fmt.Errorf("failed to delete workflow: %w", err)
	}
	return nil
}

func (s *DefaultService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *DefaultService) mutationError(ctx context.Context, id, action string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		err = domain.ErrWorkflowNotFound
	}
	zerolog.Ctx(ctx).Error().Err(err).Str("workflow_id", id).Msgf("failed to %s", action)
	return fmt.Errorf("failed to %s: %w", action, err)
}
