package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/workflow-builder/pkg/models/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultDatabase   = "workflow_builder"
	defaultCollection = "workflows"
)

// Store persists workflows as documents in a MongoDB collection. Ids are the
// hex form of the generated ObjectID.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewStore(client *mongo.Client, dbName, collName string) *Store {
	if dbName == "" {
		dbName = defaultDatabase
	}
	if collName == "" {
		collName = defaultCollection
	}

	return &Store{
		client: client,
		coll:   client.Database(dbName).Collection(collName),
	}
}

type stepDoc struct {
	ID            string `bson:"id,omitempty"`
	Instruction   string `bson:"instruction"`
	Executor      string `bson:"executor"`
	AssignedHuman string `bson:"assignedHuman,omitempty"`
}

type workflowDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Steps     []stepDoc          `bson:"steps"`
	CreatedAt *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty"`
	IsRunning *bool              `bson:"isRunning,omitempty"`
}

func (s *Store) Create(ctx context.Context, wf *store.Workflow) (string, error) {
	doc := workflowDoc{
		Title:     wf.Title,
		Steps:     toStepDocs(wf.Steps),
		CreatedAt: wf.CreatedAt,
		UpdatedAt: wf.UpdatedAt,
		IsRunning: wf.IsRunning,
	}

	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert workflow: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id.Hex(), nil
}

func (s *Store) Get(ctx context.Context, id string) (*store.Workflow, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var doc workflowDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("find workflow: %w", err)
	}
	return fromDoc(doc), nil
}

func (s *Store) List(ctx context.Context) ([]*store.Workflow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find workflows: %w", err)
	}
	defer cursor.Close(ctx)

	workflows := make([]*store.Workflow, 0)
	for cursor.Next(ctx) {
		var doc workflowDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode workflow: %w", err)
		}
		workflows = append(workflows, fromDoc(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate workflows: %w", err)
	}
	return workflows, nil
}

func (s *Store) Update(ctx context.Context, id string, update store.WorkflowUpdate) error {
	return s.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"title":     update.Title,
			"steps":     toStepDocs(update.Steps),
			"updatedAt": update.UpdatedAt,
		},
	})
}

func (s *Store) SetRunning(ctx context.Context, id string, running bool) error {
	return s.updateByID(ctx, id, bson.M{
		"$set": bson.M{"isRunning": running},
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}

	res, err := s.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func toStepDocs(steps []store.Step) []stepDoc {
	if steps == nil {
		return nil
	}
	docs := make([]stepDoc, len(steps))
	for i, st := range steps {
		docs[i] = stepDoc(st)
	}
	return docs
}

func fromDoc(doc workflowDoc) *store.Workflow {
	var steps []store.Step
	if doc.Steps != nil {
		steps = make([]store.Step, len(doc.Steps))
		for i, st := range doc.Steps {
			steps[i] = store.Step(st)
		}
	}

	return &store.Workflow{
		ID:        doc.ID.Hex(),
		Title:     doc.Title,
		Steps:     steps,
		CreatedAt: utc(doc.CreatedAt),
		UpdatedAt: utc(doc.UpdatedAt),
		IsRunning: doc.IsRunning,
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
