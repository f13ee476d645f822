package service

import (
	"context"

	"github.com/tieubaoca/study-assistant-be/repository"
	"github.com/tieubaoca/study-assistant-be/types"
)

const (
	recentQuizLimit    = 10
	weakTopicLimit     = 5
	weakScoreThreshold = 60
)

// ProgressService derives study statistics from stored quiz results.
type ProgressService struct {
	quizResults repository.QuizResultRepo
}

func NewProgressService(quizResults repository.QuizResultRepo) *ProgressService {
	return &ProgressService{quizResults: quizResults}
}

func (s *ProgressService) GetProgress(ctx context.Context) (*types.ProgressResponse, error) {
	results, err := s.quizResults.ListQuizResults(ctx)
	if err != nil {
		return nil, err
	}

	progress := &types.ProgressResponse{
		TotalQuizzes:  len(results),
		RecentQuizzes: []types.RecentQuiz{},
		WeakTopics:    []types.WeakTopic{},
	}
	if len(results) == 0 {
		return progress, nil
	}

	total := 0
	for _, result := range results {
		total += result.Score
	}
	progress.AverageScore = (total + len(results)/2) / len(results)

	for _, result := range results {
		if len(progress.RecentQuizzes) >= recentQuizLimit {
			break
		}
		progress.RecentQuizzes = append(progress.RecentQuizzes, types.RecentQuiz{
			DocumentName: result.DocumentName,
			Score:        result.Score,
			TakenAt:      result.TakenAt,
		})
	}

	// Weak topics: scores below the threshold, worst documents first in
	// stored order.
	for _, result := range results {
		if len(progress.WeakTopics) >= weakTopicLimit {
			break
		}
		if result.Score < weakScoreThreshold {
			progress.WeakTopics = append(progress.WeakTopics, types.WeakTopic{
				Name:     result.DocumentName,
				Accuracy: result.Score,
			})
		}
	}

	return progress, nil
}
