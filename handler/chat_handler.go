package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tieubaoca/study-assistant-be/service"
	"github.com/tieubaoca/study-assistant-be/types"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) HandleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req types.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Message == "" || req.DocumentID == "" {
			sendError(w, "message and document_id are required", http.StatusBadRequest)
			return
		}

		response, err := h.chatService.Answer(r.Context(), req.Message, req.DocumentID, req.History)
		if err != nil {
			if errors.Is(err, types.ErrRetrievalUnavailable) {
				sendError(w, "Document is not ready for chat yet", http.StatusConflict)
				return
			}
			sendError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		sendSuccess(w, response)
	}
}
