package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tieubaoca/study-assistant-be/service"
	"github.com/tieubaoca/study-assistant-be/types"
)

const maxUploadSize = 10 << 20 // 10MB

type UploadHandler struct {
	fileService *service.FileService
}

func NewUploadHandler(fileService *service.FileService) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
	}
}

// HandleUpload accepts a PDF and returns as soon as the file is stored;
// ingestion and index building continue in the background. Clients poll
// the document status endpoint for completion.
func (h *UploadHandler) HandleUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		file, header, err := r.FormFile("file")
		if err != nil {
			sendError(w, "Invalid file", http.StatusBadRequest)
			return
		}
		file.Close()

		var req types.UploadRequest
		if metadata := r.FormValue("metadata"); metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &req); err != nil {
				sendError(w, "Invalid metadata", http.StatusBadRequest)
				return
			}
		}

		doc, err := h.fileService.UploadFile(r.Context(), req, header)
		if err != nil {
			sendError(w, err.Error(), http.StatusInternalServerError)
			return
		}

		sendSuccess(w, types.UploadResponse{
			ID:           doc.ID,
			OriginalName: doc.Name,
		})
	}
}
