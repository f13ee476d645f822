package handler

import (
	"net/http"

	"github.com/tieubaoca/study-assistant-be/service"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

func (h *ProgressHandler) HandleProgress() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		progress, err := h.progressService.GetProgress(r.Context())
		if err != nil {
			sendError(w, "Failed to fetch progress", http.StatusInternalServerError)
			return
		}

		sendSuccess(w, progress)
	}
}
