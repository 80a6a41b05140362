package customerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cupbot/database"
	"cupbot/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCustomerRepo implements CustomerRepository using MongoDB.
type MongoCustomerRepo struct {
	coll *mongo.Collection
}

// NewMongoCustomerRepo creates a new instance of CustomerRepository using MongoDB.
func NewMongoCustomerRepo() CustomerRepository {
	coll := database.Database().Collection("customers")
	repo := &MongoCustomerRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

func (r *MongoCustomerRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "telegramId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "bookings.id", Value: 1}}},
		{Keys: bson.D{{Key: "orders.id", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoCustomerRepo) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.Customer, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var c models.Customer
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return &c, nil
}

func (r *MongoCustomerRepo) FindByTelegramID(ctx context.Context, businessID string, telegramID int64) (*models.Customer, error) {
	return r.findOne(ctx, bson.M{"businessId": businessID, "telegramId": telegramID})
}

func (r *MongoCustomerRepo) GetByID(ctx context.Context, businessID, id string) (*models.Customer, error) {
	return r.findOne(ctx, bson.M{"businessId": businessID, "id": id})
}

func (r *MongoCustomerRepo) UpsertInteraction(ctx context.Context, businessID string, profile models.CustomerProfile, in models.Interaction) (*models.Customer, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if in.Timestamp.IsZero() {
		in.Timestamp = now
	}

	filter := bson.M{"businessId": businessID, "telegramId": profile.TelegramID}
	update := bson.M{
		"$set": bson.M{
			"chatId":    profile.ChatID,
			"firstName": profile.FirstName,
			"lastName":  profile.LastName,
			"username":  profile.Username,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"id":        uuid.New().String(),
			"bookings":  bson.A{},
			"orders":    bson.A{},
			"createdAt": now,
		},
		"$push": bson.M{
			"interactions": bson.M{"$each": bson.A{in}, "$slice": -MaxInteractions},
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var c models.Customer
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to upsert customer interaction: %w", err)
	}
	return &c, nil
}

func (r *MongoCustomerRepo) RecentInteractions(ctx context.Context, businessID string, telegramID int64, limit int) ([]models.Interaction, error) {
	if limit <= 0 {
		return nil, nil
	}
	proj := bson.M{"interactions": bson.M{"$slice": -limit}}
	c, err := r.findOne(ctx,
		bson.M{"businessId": businessID, "telegramId": telegramID},
		options.FindOne().SetProjection(proj),
	)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c.Interactions, nil
}

func (r *MongoCustomerRepo) push(ctx context.Context, customerID, field string, value interface{}) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$push": bson.M{field: value},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": customerID}, update)
	if err != nil {
		return fmt.Errorf("failed to append %s for customer %s: %w", field, customerID, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCustomerRepo) AppendBooking(ctx context.Context, customerID string, b models.Booking) error {
	return r.push(ctx, customerID, "bookings", b)
}

func (r *MongoCustomerRepo) AppendOrder(ctx context.Context, customerID string, o models.Order) error {
	return r.push(ctx, customerID, "orders", o)
}

func (r *MongoCustomerRepo) List(ctx context.Context, businessID string) ([]models.Customer, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"businessId": businessID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer cursor.Close(ctx)

	customers := []models.Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("failed to decode customers: %w", err)
	}
	return customers, nil
}
