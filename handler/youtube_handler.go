package handler

import (
	"net/http"
	"strconv"

	"github.com/tieubaoca/study-assistant-be/service"
)

type YouTubeHandler struct {
	youtubeService *service.YouTubeService
}

func NewYouTubeHandler(youtubeService *service.YouTubeService) *YouTubeHandler {
	return &YouTubeHandler{
		youtubeService: youtubeService,
	}
}

func (h *YouTubeHandler) HandleSearch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		topic := r.URL.Query().Get("topic")
		if topic == "" {
			sendError(w, "topic parameter is required", http.StatusBadRequest)
			return
		}

		maxResults, _ := strconv.ParseInt(r.URL.Query().Get("max"), 10, 64)
		videos, err := h.youtubeService.SearchVideos(r.Context(), topic, maxResults)
		if err != nil {
			sendError(w, "Video search failed", http.StatusInternalServerError)
			return
		}

		sendSuccess(w, videos)
	}
}
