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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll            *mongo.Collection
	useTransactions bool
}

// NewMongoBookingRepo constructs a booking repository over the given database.
// The engine's per-practitioner lock is the exclusion mechanism for the
// conflict-checked writes in every configuration; the transaction (when
// enabled) only guarantees the check and the write commit or roll back
// together. useTransactions must be false against a standalone mongod.
func NewMongoBookingRepo(db *mongo.Database, useTransactions bool) *MongoBookingRepo {
	return &MongoBookingRepo{
		coll:            db.Collection("bookings"),
		useTransactions: useTransactions,
	}
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

// activeOverlapFilter matches PENDING/CONFIRMED bookings for the practitioner
// that overlap [start, end) under half-open semantics.
func activeOverlapFilter(practitionerID string, start, end time.Time) bson.M {
	return bson.M{
		"practitionerId": practitionerID,
		"status":         bson.M{"$in": models.ActiveStatuses},
		"start":          bson.M{"$lt": end},
		"end":            bson.M{"$gt": start},
	}
}

func (r *MongoBookingRepo) ListActiveInWindow(ctx context.Context, practitionerID string, windowStart, windowEnd time.Time) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, activeOverlapFilter(practitionerID, windowStart, windowEnd), opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching active bookings for %s: %w", practitionerID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding active bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) ListByPractitioner(ctx context.Context, practitionerID string, windowStart, windowEnd time.Time, statuses []string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"practitionerId": practitionerID,
		"start":          bson.M{"$lt": windowEnd},
		"end":            bson.M{"$gt": windowStart},
	}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for %s: %w", practitionerID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, target string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	sources := models.TransitionSources(target)
	filter := bson.M{"id": id, "status": bson.M{"$in": sources}}
	update := bson.M{"$set": bson.M{"status": target, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("error updating booking %s status: %w", id, err)
	}

	// Distinguish a missing booking from a disallowed transition.
	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	return nil, &TransitionError{BookingID: id, Current: current.Status, Target: target}
}

func (r *MongoBookingRepo) MarkCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status": models.StatusConfirmed,
		"end":    bson.M{"$lte": cutoff},
	}
	update := bson.M{"$set": bson.M{"status": models.StatusCompleted, "updatedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("error completing past bookings: %w", err)
	}
	return res.ModifiedCount, nil
}
