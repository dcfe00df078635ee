package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
)

const messagesCollection = "messages"

// MessageRepository implements ports.MessageRepository using MongoDB. The
// collection is append-only; there is no update or delete path.
type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection(messagesCollection)}
}

type mongoMessage struct {
	ID          string    `bson:"_id"`
	SenderID    string    `bson:"sender_id"`
	RecipientID string    `bson:"recipient_id"`
	Body        string    `bson:"body"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (r *MessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, mongoMessage{
		ID:          msg.ID,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Body:        msg.Body,
		CreatedAt:   msg.CreatedAt,
	})
	return err
}

// FindBetween returns the full thread between two identities. The secondary
// sort on _id keeps replays deterministic when two messages share a
// timestamp.
func (r *MessageRepository) FindBetween(ctx context.Context, userA, userB string) ([]*domain.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"sender_id": userA, "recipient_id": userB},
		{"sender_id": userB, "recipient_id": userA},
	}}
	sort := bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	messages := []*domain.Message{}
	for cur.Next(ctx) {
		var mm mongoMessage
		if err := cur.Decode(&mm); err != nil {
			return nil, err
		}
		messages = append(messages, &domain.Message{
			ID:          mm.ID,
			SenderID:    mm.SenderID,
			RecipientID: mm.RecipientID,
			Body:        mm.Body,
			CreatedAt:   mm.CreatedAt,
		})
	}
	return messages, cur.Err()
}

// EnsureIndexes creates necessary indexes on the messages collection.
func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "recipient_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
