package service

import (
	"context"
	"fmt"
	"log"

	"github.com/tieubaoca/study-assistant-be/types"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const defaultVideoResults = 5

// YouTubeService looks up educational videos for a topic. Without an API
// key it serves fixed sample results instead of failing.
type YouTubeService struct {
	apiKey string
}

func NewYouTubeService(apiKey string) *YouTubeService {
	return &YouTubeService{apiKey: apiKey}
}

func (s *YouTubeService) SearchVideos(ctx context.Context, topic string, maxResults int64) ([]types.VideoResult, error) {
	if maxResults <= 0 {
		maxResults = defaultVideoResults
	}
	if s.apiKey == "" {
		log.Println("YouTube API key not configured, returning sample videos")
		return sampleVideos(topic), nil
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		log.Printf("Failed to create YouTube service: %v", err)
		return sampleVideos(topic), nil
	}

	call := svc.Search.List([]string{"snippet"}).
		Q(topic + " educational tutorial").
		Type("video").
		MaxResults(maxResults).
		RelevanceLanguage("en").
		SafeSearch("strict")

	response, err := call.Context(ctx).Do()
	if err != nil {
		log.Printf("YouTube search failed: %v", err)
		return sampleVideos(topic), nil
	}

	videos := make([]types.VideoResult, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Snippet == nil {
			continue
		}
		video := types.VideoResult{
			ID:           item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			URL:          fmt.Sprintf("https://www.youtube.com/watch?v=%s", item.Id.VideoId),
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Medium != nil {
			video.Thumbnail = item.Snippet.Thumbnails.Medium.Url
		}
		videos = append(videos, video)
	}
	return videos, nil
}

func sampleVideos(topic string) []types.VideoResult {
	return []types.VideoResult{
		{
			ID:           "sample1",
			Title:        fmt.Sprintf("%s - Complete Tutorial", topic),
			Description:  fmt.Sprintf("Learn about %s in this comprehensive educational video.", topic),
			ChannelTitle: "Education Channel",
			URL:          "#",
		},
		{
			ID:           "sample2",
			Title:        fmt.Sprintf("%s Explained Simply", topic),
			Description:  fmt.Sprintf("Simple explanation of %s for students.", topic),
			ChannelTitle: "Learn Channel",
			URL:          "#",
		},
		{
			ID:           "sample3",
			Title:        fmt.Sprintf("%s - Quick Guide", topic),
			Description:  fmt.Sprintf("Quick guide to understanding %s.", topic),
			ChannelTitle: "Study Help",
			URL:          "#",
		},
	}
}
