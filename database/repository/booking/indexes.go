package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotify/models"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (r *MongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary conflict-check path: active bookings per practitioner by time.
		{
			Keys: bson.D{
				{Key: "practitionerId", Value: 1},
				{Key: "start", Value: 1},
				{Key: "end", Value: 1},
			},
			Options: options.Index().
				SetName("practitioner_active_time_idx").
				SetPartialFilterExpression(bson.M{"status": bson.M{"$in": models.ActiveStatuses}}),
		},
		// Listing queries by practitioner and window.
		{
			Keys:    bson.D{{Key: "practitionerId", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("practitioner_status_start_idx"),
		},
		// Completion sweeper scan.
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "end", Value: 1}},
			Options: options.Index().SetName("status_end_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
