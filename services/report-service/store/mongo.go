package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecowatch-reporting-system/services/report-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const reportsCollection = "reports"

// MongoStore persists reports in a MongoDB collection.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) col() *mongo.Collection {
	return s.db.Collection(reportsCollection)
}

func wrapMongoErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *MongoStore) Insert(ctx context.Context, r *models.Report) (string, error) {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if _, err := s.col().InsertOne(ctx, r); err != nil {
		return "", wrapMongoErr("insert report", err)
	}
	return r.ID.Hex(), nil
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Report, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid report id %q: %w", id, ErrNotFound)
	}

	var report models.Report
	err = s.col().FindOne(ctx, bson.M{"_id": objID}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, wrapMongoErr("get report", err)
	}
	return &report, nil
}

func (s *MongoStore) ListAll(ctx context.Context) ([]models.Report, error) {
	return s.list(ctx, bson.M{})
}

func (s *MongoStore) ListByStatus(ctx context.Context, status models.Status) ([]models.Report, error) {
	return s.list(ctx, bson.M{"status": status})
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]models.Report, error) {
	return s.list(ctx, bson.M{"submitter_id": userID})
}

func (s *MongoStore) list(ctx context.Context, filter bson.M) ([]models.Report, error) {
	cursor, err := s.col().Find(ctx, filter)
	if err != nil {
		return nil, wrapMongoErr("list reports", err)
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, wrapMongoErr("decode reports", err)
	}
	return reports, nil
}

// UpdateStatusIf performs a conditional update keyed on the expected current
// status. Two racing transitions from the same state cannot both match.
func (s *MongoStore) UpdateStatusIf(ctx context.Context, id string, expected, next models.Status) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invalid report id %q: %w", id, ErrNotFound)
	}

	update := bson.M{
		"$set": bson.M{
			"status":     next,
			"updated_at": time.Now(),
		},
	}

	result, err := s.col().UpdateOne(ctx, bson.M{"_id": objID, "status": expected}, update)
	if err != nil {
		return false, wrapMongoErr("update status", err)
	}
	return result.ModifiedCount == 1, nil
}
