package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotify/models"
)

// MongoScheduleRepo implements ScheduleRepository using MongoDB.
type MongoScheduleRepo struct {
	coll            *mongo.Collection
	useTransactions bool
}

// NewMongoScheduleRepo constructs a schedule repository over the given database.
// useTransactions must be false against a standalone mongod.
func NewMongoScheduleRepo(db *mongo.Database, useTransactions bool) *MongoScheduleRepo {
	return &MongoScheduleRepo{
		coll:            db.Collection("weekly_availability"),
		useTransactions: useTransactions,
	}
}

func (r *MongoScheduleRepo) GetWeekly(ctx context.Context, practitionerID string) ([]models.WeeklyAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"practitionerId": practitionerID}
	opts := options.Find().SetSort(bson.D{{Key: "dayOfWeek", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching weekly schedule for %s: %w", practitionerID, err)
	}
	defer cursor.Close(ctx)

	var entries []models.WeeklyAvailability
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding weekly schedule: %w", err)
	}
	return entries, nil
}

func (r *MongoScheduleRepo) GetForDay(ctx context.Context, practitionerID string, day time.Weekday) (*models.WeeklyAvailability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"practitionerId": practitionerID, "dayOfWeek": int(day)}
	var entry models.WeeklyAvailability
	err := r.coll.FindOne(ctx, filter).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching schedule for %s day %d: %w", practitionerID, day, err)
	}
	return &entry, nil
}

// ReplaceWeekly deletes every existing row for the practitioner and inserts
// the new set. Partial updates have no clear merge semantics for a weekly
// schedule, so the whole set is always swapped.
func (r *MongoScheduleRepo) ReplaceWeekly(ctx context.Context, practitionerID string, entries []models.WeeklyAvailability) error {
	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.PractitionerID = practitionerID
		docs[i] = e
	}

	swap := func(c context.Context) error {
		if _, err := r.coll.DeleteMany(c, bson.M{"practitionerId": practitionerID}); err != nil {
			return fmt.Errorf("delete existing schedule failed: %w", err)
		}
		if len(docs) == 0 {
			return nil
		}
		if _, err := r.coll.InsertMany(c, docs); err != nil {
			return fmt.Errorf("insert new schedule failed: %w", err)
		}
		return nil
	}

	if !r.useTransactions {
		return swap(ctx)
	}

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := swap(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("schedule replace transaction failed: %w", err)
	}
	return nil
}
