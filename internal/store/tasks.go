package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/taskflow/internal/models"
)

const tasksCollection = "tasks"

// TaskStore handles task documents in MongoDB. Every read and write filters
// by owner, so a task belonging to another user behaves exactly like a task
// that does not exist.
type TaskStore struct {
	col *mongo.Collection
}

func NewTaskStore(db *mongo.Database) *TaskStore {
	return &TaskStore{col: db.Collection(tasksCollection)}
}

func (s *TaskStore) Insert(ctx context.Context, t *models.Task) (*models.Task, error) {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return t, nil
}

// ListByOwner returns all tasks owned by ownerID, newest first.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cur.Close(ctx)

	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskStore) GetByID(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Task, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}
	var t models.Task
	if err := s.col.FindOne(ctx, filter).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &t, nil
}

// Update applies only the fields present in req to an owned task and returns
// the resulting document. owner_id is never updatable.
func (s *TaskStore) Update(ctx context.Context, ownerID primitive.ObjectID, id string, req *models.UpdateTaskRequest) (*models.Task, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}
	fields := bson.M{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		fields["due_date"] = *req.DueDate
	}
	fields["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Task
	err = s.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": fields}, opts).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &t, nil
}

// Delete removes an owned task and returns the deleted copy.
func (s *TaskStore) Delete(ctx context.Context, ownerID primitive.ObjectID, id string) (*models.Task, error) {
	filter, err := ownedFilter(ownerID, id)
	if err != nil {
		return nil, err
	}
	var t models.Task
	if err := s.col.FindOneAndDelete(ctx, filter).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return &t, nil
}

// ownedFilter builds the {_id, owner_id} filter shared by every single-task
// operation. A malformed id is reported as ErrNotFound so callers cannot
// probe for id shapes.
func ownedFilter(ownerID primitive.ObjectID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return bson.M{"_id": oid, "owner_id": ownerID}, nil
}
