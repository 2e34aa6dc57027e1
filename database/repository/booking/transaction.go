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

// InsertIfNoOverlap re-runs the overlap check against the live active set
// and inserts the booking only when clear, in a single transaction when the
// deployment supports them. The check and the insert always travel together;
// there is no code path that inserts without the check.
func (r *MongoBookingRepo) InsertIfNoOverlap(ctx context.Context, booking *models.Booking) error {
	checkAndInsert := func(c context.Context) error {
		var existing models.Booking
		filter := activeOverlapFilter(booking.PractitionerID, booking.Start, booking.End)
		err := r.coll.FindOne(c, filter, options.FindOne().SetSort(bson.D{{Key: "start", Value: 1}})).Decode(&existing)
		if err == nil {
			return &OverlapError{ConflictingID: existing.ID}
		}
		if err != mongo.ErrNoDocuments {
			return fmt.Errorf("conflict check failed: %w", err)
		}
		if _, err := r.coll.InsertOne(c, booking); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	return r.runWrite(ctx, "booking insert", checkAndInsert)
}

// UpdateTimesIfNoOverlap moves a booking to a new interval. The conflict
// check excludes the booking itself, and the row is only written when the
// check passes; otherwise the original booking is untouched.
func (r *MongoBookingRepo) UpdateTimesIfNoOverlap(ctx context.Context, bookingID string, newStart, newEnd time.Time) (*models.Booking, error) {
	var updated models.Booking

	checkAndUpdate := func(c context.Context) error {
		var current models.Booking
		if err := r.coll.FindOne(c, bson.M{"id": bookingID}).Decode(&current); err != nil {
			if err == mongo.ErrNoDocuments {
				return ErrNotFound
			}
			return fmt.Errorf("fetch booking failed: %w", err)
		}
		if !current.IsActive() {
			return &TransitionError{BookingID: bookingID, Current: current.Status, Target: current.Status}
		}

		overlapFilter := activeOverlapFilter(current.PractitionerID, newStart, newEnd)
		overlapFilter["id"] = bson.M{"$ne": bookingID}
		var existing models.Booking
		err := r.coll.FindOne(c, overlapFilter, options.FindOne().SetSort(bson.D{{Key: "start", Value: 1}})).Decode(&existing)
		if err == nil {
			return &OverlapError{ConflictingID: existing.ID}
		}
		if err != mongo.ErrNoDocuments {
			return fmt.Errorf("conflict check failed: %w", err)
		}

		update := bson.M{"$set": bson.M{"start": newStart, "end": newEnd, "updatedAt": time.Now().UTC()}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		if err := r.coll.FindOneAndUpdate(c, bson.M{"id": bookingID}, update, opts).Decode(&updated); err != nil {
			return fmt.Errorf("update booking times failed: %w", err)
		}
		return nil
	}

	if err := r.runWrite(ctx, "booking reschedule", checkAndUpdate); err != nil {
		return nil, err
	}
	return &updated, nil
}

// runWrite executes fn inside a mongo transaction when enabled, or directly
// otherwise. Domain errors (overlap, not-found, transition) pass through
// unwrapped so callers can inspect them.
func (r *MongoBookingRepo) runWrite(ctx context.Context, op string, fn func(context.Context) error) error {
	if !r.useTransactions {
		return fn(ctx)
	}

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return fmt.Errorf("%s: could not start transaction: %w", op, err)
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		if err := sc.CommitTransaction(sc); err != nil {
			return fmt.Errorf("%s: commit failed: %w", op, err)
		}
		return nil
	})
}
