package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	FrontendURL        string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	ExtractTopic       string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type AIConfig struct {
	// LLMProvider is "openai", "ollama" or "huggingface".
	LLMProvider string
	LLMModel    string
	LLMBaseURL  string
	LLMAPIKey   string

	// EmbeddingProvider is "gemini" or "ollama". Embeddings back the law
	// library similarity search.
	EmbeddingProvider    string
	GeminiAPIKey         string
	OllamaBaseURL        string
	OllamaEmbeddingModel string

	MemoryWindowSize int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ExtractTopic:       getEnv("EXTRACT_DOCUMENT_TOPIC_NAME", "EXTRACT_DOCUMENT_TEXT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AIChat"),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "chat-documents"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
		},
		Ai: AIConfig{
			LLMProvider:          getEnv("LLM_PROVIDER", "openai"),
			LLMModel:             getEnv("LLM_MODEL", "gpt-4o-mini"),
			LLMBaseURL:           getEnv("LLM_BASE_URL", ""),
			LLMAPIKey:            getEnv("LLM_API_KEY", ""),
			EmbeddingProvider:    getEnv("EMBEDDING_PROVIDER", "gemini"),
			GeminiAPIKey:         getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel: getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			MemoryWindowSize:     getEnvAsInt("CHAT_MEMORY_WINDOW", 15),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
