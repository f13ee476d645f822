package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tieubaoca/study-assistant-be/repository"
	"github.com/tieubaoca/study-assistant-be/service"
	"github.com/tieubaoca/study-assistant-be/types"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type DocumentHandler struct {
	fileService *service.FileService
	documents   repository.DocumentRepo
}

func NewDocumentHandler(fileService *service.FileService, documents repository.DocumentRepo) *DocumentHandler {
	return &DocumentHandler{
		fileService: fileService,
		documents:   documents,
	}
}

func (h *DocumentHandler) HandleDocuments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			docs, err := h.documents.ListDocuments(r.Context())
			if err != nil {
				sendError(w, "Failed to list documents", http.StatusInternalServerError)
				return
			}
			if docs == nil {
				docs = []*types.Document{}
			}
			sendSuccess(w, docs)

		case http.MethodDelete:
			id := r.URL.Query().Get("id")
			if id == "" {
				sendError(w, "id parameter is required", http.StatusBadRequest)
				return
			}
			if err := h.fileService.DeleteDocument(r.Context(), id); err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					sendError(w, "Document not found", http.StatusNotFound)
					return
				}
				sendError(w, "Failed to delete document", http.StatusInternalServerError)
				return
			}
			sendSuccess(w, nil)

		default:
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleStatus reports whether a document's index is ready. Clients poll
// this after upload.
func (h *DocumentHandler) HandleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id := r.URL.Query().Get("id")
		if id == "" {
			sendError(w, "id parameter is required", http.StatusBadRequest)
			return
		}

		doc, err := h.documents.GetDocument(r.Context(), id)
		if err != nil {
			sendError(w, "Document not found", http.StatusNotFound)
			return
		}

		sendSuccess(w, types.DocumentStatusResponse{
			ID:         doc.ID,
			Processed:  doc.Processed,
			PageCount:  doc.PageCount,
			ChunkCount: doc.ChunkCount,
		})
	}
}

// HandleServeDocument streams the stored PDF back to the client.
func (h *DocumentHandler) HandleServeDocument() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id := r.URL.Query().Get("id")
		if id == "" {
			sendError(w, "id parameter is required", http.StatusBadRequest)
			return
		}

		doc, err := h.documents.GetDocument(r.Context(), id)
		if err != nil {
			sendError(w, "Document not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", doc.Name))
		http.ServeFile(w, r, doc.FilePath)
	}
}
