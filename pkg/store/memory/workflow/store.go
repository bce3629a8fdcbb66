package workflow

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/de-tools/workflow-builder/pkg/models/store"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Store keeps workflow documents in process memory. Entries never expire.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
	newID func() (uuid.UUID, error)
}

func NewStore() *Store {
	return &Store{
		cache: gocache.New(gocache.NoExpiration, 0),
		newID: uuid.NewV7,
	}
}

func (s *Store) Create(_ context.Context, wf *store.Workflow) (string, error) {
	id, err := s.newID()
	if err != nil {
		return "", err
	}

	doc := clone(wf)
	doc.ID = id.String()
	s.cache.Set(doc.ID, doc, gocache.NoExpiration)
	return doc.ID, nil
}

func (s *Store) Get(_ context.Context, id string) (*store.Workflow, error) {
	doc, ok := s.lookup(id)
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(doc), nil
}

func (s *Store) List(_ context.Context) ([]*store.Workflow, error) {
	items := s.cache.Items()
	workflows := make([]*store.Workflow, 0, len(items))
	for _, item := range items {
		if doc, ok := item.Object.(*store.Workflow); ok {
			workflows = append(workflows, clone(doc))
		}
	}

	sort.Slice(workflows, func(i, j int) bool {
		a, b := workflows[i], workflows[j]
		ta, tb := createdAt(a), createdAt(b)
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		return a.ID > b.ID
	})
	return workflows, nil
}

func (s *Store) Update(_ context.Context, id string, update store.WorkflowUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookup(id)
	if !ok {
		return store.ErrNotFound
	}

	next := clone(doc)
	next.Title = update.Title
	next.Steps = copySteps(update.Steps)
	updatedAt := update.UpdatedAt
	next.UpdatedAt = &updatedAt
	s.cache.Set(id, next, gocache.NoExpiration)
	return nil
}

func (s *Store) SetRunning(_ context.Context, id string, running bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.lookup(id)
	if !ok {
		return store.ErrNotFound
	}

	next := clone(doc)
	next.IsRunning = &running
	s.cache.Set(id, next, gocache.NoExpiration)
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Delete(id)
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close(context.Context) error {
	s.cache.Flush()
	return nil
}

func (s *Store) lookup(id string) (*store.Workflow, bool) {
	value, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	doc, ok := value.(*store.Workflow)
	return doc, ok
}

func createdAt(wf *store.Workflow) time.Time {
	if wf.CreatedAt == nil {
		return time.Time{}
	}
	return *wf.CreatedAt
}

func clone(wf *store.Workflow) *store.Workflow {
	out := *wf
	out.Steps = copySteps(wf.Steps)
	if wf.CreatedAt != nil {
		t := *wf.CreatedAt
		out.CreatedAt = &t
	}
	if wf.UpdatedAt != nil {
		t := *wf.UpdatedAt
		out.UpdatedAt = &t
	}
	if wf.IsRunning != nil {
		r := *wf.IsRunning
		out.IsRunning = &r
	}
	return &out
}

func copySteps(steps []store.Step) []store.Step {
	if steps == nil {
		return nil
	}
	out := make([]store.Step, len(steps))
	copy(out, steps)
	return out
}
