/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/study-assistant-be/config"
	"github.com/tieubaoca/study-assistant-be/database"
	"github.com/tieubaoca/study-assistant-be/handler"
	"github.com/tieubaoca/study-assistant-be/repository"
	"github.com/tieubaoca/study-assistant-be/service"
	"github.com/tieubaoca/study-assistant-be/types"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the study assistant server",
	Long:  `Starts the HTTP server backing PDF upload, chat, quiz and progress endpoints`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config-file")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		mongoClient, err := database.NewMongoClient(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoDb := mongoClient.Database("study_assistant")

		indexManager, err := database.NewIndexManager(cfg.IndexDir, cfg.IndexCacheSize)
		if err != nil {
			log.Fatalf("Failed to initialize index manager: %v", err)
		}
		defer indexManager.Close()

		// Initialize repositories
		documentRepo := repository.NewDocumentRepo(mongoDb)
		quizResultRepo := repository.NewQuizResultRepo(mongoDb)
		chatHistoryRepo := repository.NewChatHistoryRepo(mongoDb)

		// Initialize services
		pdfService := service.NewPDFService(types.DocumentServiceConfig{
			MaxChunkSize: cfg.MaxChunkSize,
			OverlapSize:  cfg.OverlapSize,
		})
		embedder := service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		aiService := newAIService(cfg)

		fileService := service.NewFileService(cfg.UploadDir, pdfService, embedder, indexManager, documentRepo)
		retriever := service.NewRetriever(embedder, indexManager)
		timeout := time.Duration(cfg.GenerationTimeout) * time.Second
		chatService := service.NewChatService(retriever, aiService, chatHistoryRepo, cfg.RetrievalTopK, timeout)
		quizService := service.NewQuizService(retriever, aiService, timeout)
		progressService := service.NewProgressService(quizResultRepo)
		youtubeService := service.NewYouTubeService(cfg.YouTubeAPIKey)
		wsService := service.NewWebSocketService(chatService)

		// Initialize handlers
		uploadHandler := handler.NewUploadHandler(fileService)
		chatHandler := handler.NewChatHandler(chatService)
		quizHandler := handler.NewQuizHandler(quizService, quizResultRepo)
		progressHandler := handler.NewProgressHandler(progressService)
		documentHandler := handler.NewDocumentHandler(fileService, documentRepo)
		youtubeHandler := handler.NewYouTubeHandler(youtubeService)

		mux := http.NewServeMux()
		mux.HandleFunc("/api/health", handler.HandleHealth())
		mux.HandleFunc("/api/upload-pdf", uploadHandler.HandleUpload())
		mux.HandleFunc("/api/chat", chatHandler.HandleChat())
		mux.HandleFunc("/api/generate-quiz", quizHandler.HandleGenerateQuiz())
		mux.HandleFunc("/api/save-quiz-result", quizHandler.HandleSaveQuizResult())
		mux.HandleFunc("/api/progress", progressHandler.HandleProgress())
		mux.HandleFunc("/api/documents", documentHandler.HandleDocuments())
		mux.HandleFunc("/api/documents/status", documentHandler.HandleStatus())
		mux.HandleFunc("/api/document", documentHandler.HandleServeDocument())
		mux.HandleFunc("/api/youtube-search", youtubeHandler.HandleSearch())
		mux.HandleFunc("/ws/chat", wsService.HandleChat)

		addr := ":" + cfg.Port
		server := &http.Server{
			Addr:        addr,
			Handler:     handler.CORS(mux),
			ReadTimeout: 30 * time.Second,
		}

		log.Printf("Server running on http://localhost%s", addr)
		log.Printf("OpenAI configured: %v, embeddings configured: %v", aiService.Configured(), embedder.Configured())
		if err := server.ListenAndServe(); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	},
}

func newAIService(cfg *config.Config) service.AIService {
	if cfg.AIProvider == "gemini" {
		var keys []string
		for _, key := range strings.Split(cfg.GeminiAPIKeys, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
		gemini, err := service.NewGeminiService(keys, cfg.Model)
		if err != nil {
			log.Fatalf("Failed to create Gemini service: %v", err)
		}
		return gemini
	}
	return service.NewOpenAIService(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.Model)
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().String("config-file", "config/config.yaml", "Path to the config file")
}
