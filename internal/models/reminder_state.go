package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ReminderStateColName = "reminder_state"
	// ReminderStateTTL bounds how long an acknowledgement outlives its session.
	ReminderStateTTL = 24 * time.Hour
)

// ReminderState records that the reminders dialog was shown for one
// authenticated session. Absence means the dialog is still due.
type ReminderState struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountID      string             `bson:"account_id" json:"account_id" validate:"required"`
	SessionID      string             `bson:"session_id" json:"session_id" validate:"required"`
	AcknowledgedAt time.Time          `bson:"acknowledged_at" json:"acknowledged_at"`
	ExpiresAt      time.Time          `bson:"expires_at" json:"expires_at"` // TTL index field
}

type ReminderRepo interface {
	GetReminderState(ctx context.Context, accountID, sessionID string) (*ReminderState, error)
	AcknowledgeReminders(ctx context.Context, state *ReminderState) error
	EnsureIndexes(ctx context.Context) error
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

// EnsureIndexes creates the reminder TTL and uniqueness indexes and the
// status history lookup index.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, ReminderStateColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().
				SetExpireAfterSeconds(0). // Expire at the time specified in expires_at
				SetName("expires_at_ttl"),
		},
		{
			Keys: bson.D{
				{Key: "account_id", Value: 1},
				{Key: "session_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("account_session_unique"),
		},
	}
	if _, err = col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating reminder indexes: %v", err)
	}

	history, err := mdb.GetCollection(ctx, StatusHistoryColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}
	_, err = history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "activity_id", Value: 1}, {Key: "changed_at", Value: -1}},
		Options: options.Index().SetName("activity_changed_at_idx"),
	})
	if err != nil {
		return fmt.Errorf("error creating history indexes: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetReminderState(ctx context.Context, accountID, sessionID string) (*ReminderState, error) {
	col, err := mdb.GetCollection(ctx, ReminderStateColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var state ReminderState
	err = col.FindOne(ctx, bson.M{
		"account_id": accountID,
		"session_id": sessionID,
	}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding reminder state: %v", err)
	}
	return &state, nil
}

func (mdb *MongodbRepo) AcknowledgeReminders(ctx context.Context, state *ReminderState) error {
	col, err := mdb.GetCollection(ctx, ReminderStateColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	now := time.Now()
	state.AcknowledgedAt = now
	state.ExpiresAt = now.Add(ReminderStateTTL)
	if state.ID.IsZero() {
		state.ID = primitive.NewObjectID()
	}

	_, err = col.InsertOne(ctx, state)
	if err != nil {
		// same account + session already acknowledged
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("error inserting reminder state: %v", err)
	}
	return nil
}
