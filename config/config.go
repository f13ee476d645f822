package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string `mapstructure:"port"`
	UploadDir         string `mapstructure:"upload_dir"`
	IndexDir          string `mapstructure:"index_dir"`
	AIProvider        string `mapstructure:"ai_provider"`
	AIEndpoint        string `mapstructure:"ai_endpoint"`
	Model             string `mapstructure:"model"`
	EmbeddingModel    string `mapstructure:"embedding_model"`
	OpenAIAPIKey      string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys     string `mapstructure:"GEMINI_API_KEYS"`
	YouTubeAPIKey     string `mapstructure:"YOUTUBE_API_KEY"`
	MongoURI          string `mapstructure:"MONGODB_URI"`
	MaxChunkSize      int    `mapstructure:"max_chunk_size"`
	OverlapSize       int    `mapstructure:"overlap_size"`
	RetrievalTopK     int    `mapstructure:"retrieval_top_k"`
	IndexCacheSize    int    `mapstructure:"index_cache_size"`
	GenerationTimeout int    `mapstructure:"generation_timeout_seconds"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("port", "5000")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("index_dir", "vector_store")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("ai_endpoint", "https://api.openai.com/v1")
	v.SetDefault("model", "gpt-3.5-turbo")
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("max_chunk_size", 1000)
	v.SetDefault("overlap_size", 200)
	v.SetDefault("retrieval_top_k", 3)
	v.SetDefault("index_cache_size", 32)
	v.SetDefault("generation_timeout_seconds", 60)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEYS")
	v.BindEnv("YOUTUBE_API_KEY")
	v.BindEnv("MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
