package customerRepo

import (
	"context"
	"fmt"
	"time"

	"cupbot/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// customerName builds "First Last" inside an aggregation.
var customerName = bson.M{"$trim": bson.M{"input": bson.M{"$concat": bson.A{
	bson.M{"$ifNull": bson.A{"$firstName", ""}},
	" ",
	bson.M{"$ifNull": bson.A{"$lastName", ""}},
}}}}

// flattenPipeline unwinds an embedded array (bookings or orders) into one
// document per element, carrying the owning customer's id, name and chat.
func flattenPipeline(businessID, field string, match bson.M, fields []string, sortKey string) mongo.Pipeline {
	project := bson.M{
		"_id":          0,
		"customerId":   "$id",
		"customerName": customerName,
		"chatId":       "$chatId",
	}
	for _, f := range fields {
		project[f] = "$" + field + "." + f
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"businessId": businessID}}},
		{{Key: "$unwind", Value: "$" + field}},
	}
	if len(match) > 0 {
		m := bson.M{}
		for k, v := range match {
			m[field+"."+k] = v
		}
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: m}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$project", Value: project}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: sortKey, Value: 1}}}},
	)
	return pipeline
}

var (
	bookingFields = []string{"id", "serviceId", "serviceName", "date", "status", "createdAt"}
	orderFields   = []string{"id", "items", "total", "status", "createdAt"}
)

func (r *MongoCustomerRepo) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("failed to run aggregation: %w", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode aggregation: %w", err)
	}
	return nil
}

func statusMatch(status string) bson.M {
	if status == "" {
		return nil
	}
	return bson.M{"status": status}
}

func (r *MongoCustomerRepo) ListBookings(ctx context.Context, businessID, status string) ([]models.BookingView, error) {
	views := []models.BookingView{}
	pipeline := flattenPipeline(businessID, "bookings", statusMatch(status), bookingFields, "date")
	if err := r.aggregate(ctx, pipeline, &views); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return views, nil
}

func (r *MongoCustomerRepo) ListOrders(ctx context.Context, businessID, status string) ([]models.OrderView, error) {
	views := []models.OrderView{}
	pipeline := flattenPipeline(businessID, "orders", statusMatch(status), orderFields, "createdAt")
	if err := r.aggregate(ctx, pipeline, &views); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return views, nil
}

func (r *MongoCustomerRepo) GetBooking(ctx context.Context, businessID, bookingID string) (*models.BookingView, error) {
	var views []models.BookingView
	pipeline := flattenPipeline(businessID, "bookings", bson.M{"id": bookingID}, bookingFields, "date")
	if err := r.aggregate(ctx, pipeline, &views); err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

func (r *MongoCustomerRepo) GetOrder(ctx context.Context, businessID, orderID string) (*models.OrderView, error) {
	var views []models.OrderView
	pipeline := flattenPipeline(businessID, "orders", bson.M{"id": orderID}, orderFields, "createdAt")
	if err := r.aggregate(ctx, pipeline, &views); err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", orderID, err)
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return &views[0], nil
}

// setEmbeddedStatus updates the matched array element through the positional operator.
func (r *MongoCustomerRepo) setEmbeddedStatus(ctx context.Context, businessID, field, id, from, to string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"businessId": businessID,
		field:        bson.M{"$elemMatch": bson.M{"id": id, "status": from}},
	}
	update := bson.M{"$set": bson.M{
		field + ".$.status": to,
		"updatedAt":         time.Now(),
	}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", field, id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCustomerRepo) SetBookingStatus(ctx context.Context, businessID, bookingID, from, to string) error {
	return r.setEmbeddedStatus(ctx, businessID, "bookings", bookingID, from, to)
}

func (r *MongoCustomerRepo) SetOrderStatus(ctx context.Context, businessID, orderID, from, to string) error {
	return r.setEmbeddedStatus(ctx, businessID, "orders", orderID, from, to)
}
