package repository

import (
	"context"

	"github.com/tieubaoca/study-assistant-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ChatHistoryRepo interface {
	AppendMessage(ctx context.Context, entry *types.ChatHistoryEntry) error
	ListMessages(ctx context.Context, documentID string) ([]*types.ChatHistoryEntry, error)
	DeleteMessages(ctx context.Context, documentID string) error
}

type chatHistoryRepo struct {
	collection *mongo.Collection
}

func NewChatHistoryRepo(db *mongo.Database) ChatHistoryRepo {
	return &chatHistoryRepo{
		collection: db.Collection("chat_history"),
	}
}

func (r *chatHistoryRepo) AppendMessage(ctx context.Context, entry *types.ChatHistoryEntry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *chatHistoryRepo) ListMessages(ctx context.Context, documentID string) ([]*types.ChatHistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"document_id": documentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*types.ChatHistoryEntry
	for cursor.Next(ctx) {
		var entry types.ChatHistoryEntry
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, cursor.Err()
}

func (r *chatHistoryRepo) DeleteMessages(ctx context.Context, documentID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"document_id": documentID})
	return err
}
