package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tieubaoca/study-assistant-be/repository"
	"github.com/tieubaoca/study-assistant-be/service"
	"github.com/tieubaoca/study-assistant-be/types"
)

type QuizHandler struct {
	quizService *service.QuizService
	quizResults repository.QuizResultRepo
}

func NewQuizHandler(quizService *service.QuizService, quizResults repository.QuizResultRepo) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		quizResults: quizResults,
	}
}

func (h *QuizHandler) HandleGenerateQuiz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req types.GenerateQuizRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.DocumentID == "" {
			sendError(w, "document_id is required", http.StatusBadRequest)
			return
		}

		questions, err := h.quizService.GenerateQuiz(r.Context(), req.DocumentID, req.Type)
		if err != nil {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}

		sendSuccess(w, types.QuizResponse{Questions: questions})
	}
}

func (h *QuizHandler) HandleSaveQuizResult() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req types.SaveQuizResultRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			sendError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.DocumentID == "" {
			sendError(w, "document_id is required", http.StatusBadRequest)
			return
		}

		documentName := req.DocumentName
		if documentName == "" {
			documentName = "Unknown PDF"
		}
		result := &types.QuizResult{
			ID:             uuid.NewString(),
			DocumentID:     req.DocumentID,
			DocumentName:   documentName,
			Score:          req.Score,
			TotalQuestions: req.TotalQuestions,
			CorrectAnswers: req.CorrectAnswers,
			Answers:        req.Answers,
			TakenAt:        time.Now().Unix(),
		}
		if err := h.quizResults.CreateQuizResult(r.Context(), result); err != nil {
			sendError(w, "Failed to save quiz result", http.StatusInternalServerError)
			return
		}

		sendSuccess(w, result)
	}
}
