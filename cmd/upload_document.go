/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/study-assistant-be/config"
	"github.com/tieubaoca/study-assistant-be/database"
	"github.com/tieubaoca/study-assistant-be/repository"
	"github.com/tieubaoca/study-assistant-be/service"
	"github.com/tieubaoca/study-assistant-be/types"
)

// uploadDocumentCmd ingests PDFs without going through the HTTP server.
// Useful for seeding preset course material.
var uploadDocumentCmd = &cobra.Command{
	Use:   "upload-document [path]",
	Short: "Ingest a PDF file or a directory of PDFs",
	Long: `Copies the given PDF (or every PDF in the given directory) into the
upload directory, extracts and chunks its text, embeds the chunks and
builds the document's vector index. Runs synchronously.`,
	Args: cobra.ExactArgs(1),
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

		pdfService := service.NewPDFService(types.DocumentServiceConfig{
			MaxChunkSize: cfg.MaxChunkSize,
			OverlapSize:  cfg.OverlapSize,
		})
		embedder := service.NewOpenAIEmbedder(cfg.AIEndpoint, cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		fileService := service.NewFileService(cfg.UploadDir, pdfService, embedder, indexManager, repository.NewDocumentRepo(mongoDb))

		paths, err := collectPDFPaths(args[0])
		if err != nil {
			log.Fatalf("Failed to resolve %s: %v", args[0], err)
		}
		if len(paths) == 0 {
			log.Fatalf("No PDF files found at %s", args[0])
		}

		ctx := context.Background()
		for _, path := range paths {
			doc, err := fileService.UploadLocalFile(ctx, path)
			if err != nil {
				log.Printf("Failed to ingest %s: %v", path, err)
				continue
			}
			if doc.Processed {
				log.Printf("Ingested %s: id=%s pages=%d chunks=%d", path, doc.ID, doc.PageCount, doc.ChunkCount)
			} else {
				log.Printf("Stored %s without an index (embeddings unconfigured): id=%s", path, doc.ID)
			}
		}
	},
}

func collectPDFPaths(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			paths = append(paths, filepath.Join(root, entry.Name()))
		}
	}
	return paths, nil
}

func init() {
	rootCmd.AddCommand(uploadDocumentCmd)
	uploadDocumentCmd.Flags().String("config-file", "config/config.yaml", "Path to the config file")
}
