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

const usersCollection = "users"

// secretFields are excluded from reads unless the caller asks for them.
var secretFields = bson.M{"password_hash": 0, "refresh_token": 0}

// UserStore handles account documents in MongoDB.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(usersCollection)}
}

// CreateUser inserts a new account. Email must already be normalized
// (trimmed, lowercased); the hash is produced by the caller so that hashing
// stays an explicit, testable step rather than a storage side effect.
func (s *UserStore) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	now := time.Now().UTC()
	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := s.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}

// GetByEmail returns the user with the given normalized email, or nil if no
// such user exists. Secrets are included only when withSecrets is set.
func (s *UserStore) GetByEmail(ctx context.Context, email string, withSecrets bool) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email}, withSecrets)
}

// GetByID returns the user with the given id, or nil if the id is malformed
// or no such user exists.
func (s *UserStore) GetByID(ctx context.Context, id string, withSecrets bool) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid}, withSecrets)
}

// SetRefreshToken overwrites the stored refresh token; an empty token clears
// it. At most one refresh token lives on a user document at a time.
func (s *UserStore) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	update := bson.M{"$set": bson.M{"refresh_token": token, "updated_at": time.Now().UTC()}}
	if token == "" {
		update = bson.M{
			"$unset": bson.M{"refresh_token": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		}
	}
	res, err := s.col.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RotateRefreshToken swaps old for new in a single compare-and-set update.
// If the stored token no longer equals old (a prior rotation or logout won
// the race), no document matches and ErrNotFound is returned.
func (s *UserStore) RotateRefreshToken(ctx context.Context, id primitive.ObjectID, old, next string) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "refresh_token": old},
		bson.M{"$set": bson.M{"refresh_token": next, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M, withSecrets bool) (*models.User, error) {
	opts := options.FindOne()
	if !withSecrets {
		opts.SetProjection(secretFields)
	}
	var u models.User
	if err := s.col.FindOne(ctx, filter, opts).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
