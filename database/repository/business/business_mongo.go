package businessRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cupbot/database"
	"cupbot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBusinessRepo implements BusinessRepository using MongoDB.
type MongoBusinessRepo struct {
	coll *mongo.Collection
}

// NewMongoBusinessRepo creates a new instance of BusinessRepository using MongoDB.
func NewMongoBusinessRepo() BusinessRepository {
	coll := database.Database().Collection("businesses")
	repo := &MongoBusinessRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext derives a context with the given timeout from the caller's.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

func (r *MongoBusinessRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ownerEmail", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoBusinessRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Business, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var b models.Business
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch business: %w", err)
	}
	return &b, nil
}

func (r *MongoBusinessRepo) GetByID(ctx context.Context, id string) (*models.Business, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoBusinessRepo) GetFirst(ctx context.Context) (*models.Business, error) {
	return r.findOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *MongoBusinessRepo) GetByEmail(ctx context.Context, email string) (*models.Business, error) {
	return r.findOne(ctx, bson.M{"ownerEmail": strings.ToLower(strings.TrimSpace(email))})
}

// Create inserts a new business document.
func (r *MongoBusinessRepo) Create(ctx context.Context, b *models.Business) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.OwnerEmail = strings.ToLower(strings.TrimSpace(b.OwnerEmail))

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create business: %w", err)
	}
	return nil
}

// Update replaces an existing business document.
func (r *MongoBusinessRepo) Update(ctx context.Context, b *models.Business) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	b.UpdatedAt = time.Now()
	result, err := r.coll.ReplaceOne(ctx, bson.M{"id": b.ID}, b)
	if err != nil {
		return fmt.Errorf("failed to update business with id %s: %w", b.ID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoBusinessRepo) UpdateSettings(ctx context.Context, id string, settings models.Settings) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"settings": settings, "updatedAt": time.Now()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update settings for business %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
