package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const StatusHistoryColName = "activity_status_history"

// StatusChange is one lifecycle transition of an activity.
type StatusChange struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ActivityID string             `bson:"activity_id" json:"activity_id" validate:"required"`
	From       Status             `bson:"from" json:"from"`
	To         Status             `bson:"to" json:"to" validate:"required"`
	ChangedBy  string             `bson:"changed_by" json:"changed_by" validate:"required"`
	Actor      Actor              `bson:"actor" json:"actor"`
	Reason     string             `bson:"reason,omitempty" json:"reason,omitempty"`
	ChangedAt  time.Time          `bson:"changed_at" json:"changed_at"`
}

type StatusHistoryRepo interface {
	RecordStatusChange(ctx context.Context, change *StatusChange) error
	GetStatusHistory(ctx context.Context, activityID string) ([]*StatusChange, error)
}

func (c *StatusChange) BeforeCreate() error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	if c.ChangedAt.IsZero() {
		c.ChangedAt = time.Now()
	}
	return nil
}

func (mdb *MongodbRepo) RecordStatusChange(ctx context.Context, change *StatusChange) error {
	if err := Validate.Struct(change); err != nil {
		return fmt.Errorf("invalid status change: %w", err)
	}
	if err := change.BeforeCreate(); err != nil {
		return fmt.Errorf("failed to prepare status change: %w", err)
	}

	col, err := mdb.GetCollection(ctx, StatusHistoryColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	if _, err := col.InsertOne(ctx, change); err != nil {
		return fmt.Errorf("error inserting status change: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetStatusHistory(ctx context.Context, activityID string) ([]*StatusChange, error) {
	col, err := mdb.GetCollection(ctx, StatusHistoryColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "changed_at", Value: 1}})
	cursor, err := col.Find(ctx, bson.M{"activity_id": activityID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding status history: %v", err)
	}
	defer cursor.Close(ctx)

	var changes []*StatusChange
	for cursor.Next(ctx) {
		var change StatusChange
		if err := cursor.Decode(&change); err != nil {
			return nil, fmt.Errorf("error decoding status change: %v", err)
		}
		changes = append(changes, &change)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	if changes == nil {
		changes = []*StatusChange{}
	}
	return changes, nil
}
