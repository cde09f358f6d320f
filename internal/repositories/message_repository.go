package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/socialconnect-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetMessageByID(ctx context.Context, id string) (*models.Message, error)
	GetMessagesByConversationID(ctx context.Context, conversationID uint) ([]models.Message, error)
	GetLastMessage(ctx context.Context, conversationID uint) (*models.Message, error)
	CountUnread(ctx context.Context, conversationID, readerID uint) (int64, error)
	MarkConversationRead(ctx context.Context, conversationID, readerID uint) error
	DeleteMessage(ctx context.Context, id string) error
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// CreateMessage creates a new message in MongoDB
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, msg)
	return err
}

// GetMessageByID retrieves a message by ID from MongoDB
func (r *MongoMessageRepository) GetMessageByID(ctx context.Context, id string) (*models.Message, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid message ID format: %w", err)
	}

	var msg models.Message
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&msg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("message not found")
		}
		return nil, err
	}
	return &msg, nil
}

// GetMessagesByConversationID retrieves a conversation's thread, oldest first
func (r *MongoMessageRepository) GetMessagesByConversationID(ctx context.Context, conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"conversation_id": conversationID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetLastMessage retrieves the most recent message of a conversation, or nil
// if the thread is empty
func (r *MongoMessageRepository) GetLastMessage(ctx context.Context, conversationID uint) (*models.Message, error) {
	var msg models.Message
	findOptions := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"conversation_id": conversationID}, findOptions).Decode(&msg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// CountUnread counts messages in a conversation not yet read by readerID
func (r *MongoMessageRepository) CountUnread(ctx context.Context, conversationID, readerID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"conversation_id": conversationID,
		"is_read":         false,
		"sender_id":       bson.M{"$ne": readerID},
	})
}

// MarkConversationRead marks every message from the other participant as read
func (r *MongoMessageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID uint) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{
		"conversation_id": conversationID,
		"is_read":         false,
		"sender_id":       bson.M{"$ne": readerID},
	}, bson.M{"$set": bson.M{"is_read": true}})
	return err
}

// DeleteMessage deletes a message by ID from MongoDB
func (r *MongoMessageRepository) DeleteMessage(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid message ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("message not found")
	}
	return nil
}
