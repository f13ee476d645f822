package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/study-assistant-be/types"
)

func TestGetProgressEmpty(t *testing.T) {
	s := NewProgressService(&fakeQuizResults{})

	progress, err := s.GetProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, progress.TotalQuizzes)
	assert.Equal(t, 0, progress.AverageScore)
	assert.NotNil(t, progress.RecentQuizzes)
	assert.Empty(t, progress.RecentQuizzes)
	assert.NotNil(t, progress.WeakTopics)
	assert.Empty(t, progress.WeakTopics)
}

func TestGetProgressAverageRounds(t *testing.T) {
	repo := &fakeQuizResults{results: []*types.QuizResult{
		{DocumentName: "Physics", Score: 50},
		{DocumentName: "Biology", Score: 75},
	}}
	s := NewProgressService(repo)

	progress, err := s.GetProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, progress.TotalQuizzes)
	assert.Equal(t, 63, progress.AverageScore)
}

func TestGetProgressWeakTopics(t *testing.T) {
	repo := &fakeQuizResults{results: []*types.QuizResult{
		{DocumentName: "Physics", Score: 40},
		{DocumentName: "Biology", Score: 85},
		{DocumentName: "Chemistry", Score: 59},
		{DocumentName: "History", Score: 60},
	}}
	s := NewProgressService(repo)

	progress, err := s.GetProgress(context.Background())
	require.NoError(t, err)
	require.Len(t, progress.WeakTopics, 2)
	assert.Equal(t, "Physics", progress.WeakTopics[0].Name)
	assert.Equal(t, 40, progress.WeakTopics[0].Accuracy)
	assert.Equal(t, "Chemistry", progress.WeakTopics[1].Name)
}

func TestGetProgressLimits(t *testing.T) {
	repo := &fakeQuizResults{}
	for i := 0; i < 20; i++ {
		repo.results = append(repo.results, &types.QuizResult{
			DocumentName: fmt.Sprintf("Doc %d", i),
			Score:        10,
		})
	}
	s := NewProgressService(repo)

	progress, err := s.GetProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, progress.TotalQuizzes)
	assert.Len(t, progress.RecentQuizzes, recentQuizLimit)
	assert.Len(t, progress.WeakTopics, weakTopicLimit)
	assert.Equal(t, "Doc 0", progress.RecentQuizzes[0].DocumentName)
}

func TestGetProgressRepoError(t *testing.T) {
	s := NewProgressService(&fakeQuizResults{err: assert.AnError})
	_, err := s.GetProgress(context.Background())
	assert.Error(t, err)
}
