package repository

import (
	"context"

	"github.com/tieubaoca/study-assistant-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type QuizResultRepo interface {
	CreateQuizResult(ctx context.Context, result *types.QuizResult) error
	ListQuizResults(ctx context.Context) ([]*types.QuizResult, error)
}

type quizResultRepo struct {
	collection *mongo.Collection
}

func NewQuizResultRepo(db *mongo.Database) QuizResultRepo {
	return &quizResultRepo{
		collection: db.Collection("quiz_results"),
	}
}

func (r *quizResultRepo) CreateQuizResult(ctx context.Context, result *types.QuizResult) error {
	_, err := r.collection.InsertOne(ctx, result)
	return err
}

func (r *quizResultRepo) ListQuizResults(ctx context.Context) ([]*types.QuizResult, error) {
	opts := options.Find().SetSort(bson.D{{Key: "taken_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []*types.QuizResult
	for cursor.Next(ctx) {
		var result types.QuizResult
		if err := cursor.Decode(&result); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}
	return results, cursor.Err()
}
