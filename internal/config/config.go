package config

import (
	"log"
	"os"
	"strconv"

	"insurance-assistant-be/internal/constant"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Retrieval  RetrievalConfig
	Generation GenerationConfig
	SMTP       SMTPConfig
	Ai         AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	CompanyName        string
	EscalationContact  string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type RetrievalConfig struct {
	Provider     string // "index" or "local"
	BaseURL      string
	IndexID      string
	DataSourceID string
	APIKey       string
	Limit        int
}

type GenerationConfig struct {
	BaseURL         string
	APIKey          string
	ModelVersion    string
	SafetyFilterRef string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini", "ollama" or "jina"
	GeminiAPIKey      string
	JinaAPIKey        string
	OllamaBaseURL     string
	OllamaModel       string
	IngestionTopic    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			CompanyName:        getEnv("COMPANY_NAME", "Acme Insurance"),
			EscalationContact:  getEnv("ESCALATION_CONTACT", "support@acme-insurance.example"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:    getEnv("STORAGE_BUCKET", "policy-documents"),
			UseSSL:    getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Retrieval: RetrievalConfig{
			Provider:     getEnv("RETRIEVAL_PROVIDER", "index"),
			BaseURL:      getEnv("RETRIEVAL_BASE_URL", ""),
			IndexID:      getEnv("RETRIEVAL_INDEX_ID", ""),
			DataSourceID: getEnv("RETRIEVAL_DATA_SOURCE_ID", ""),
			APIKey:       getEnv("RETRIEVAL_API_KEY", ""),
			Limit:        getEnvAsInt("RETRIEVAL_LIMIT", 5),
		},
		Generation: GenerationConfig{
			BaseURL:         getEnv("GENERATION_BASE_URL", ""),
			APIKey:          getEnv("GENERATION_API_KEY", ""),
			ModelVersion:    getEnv("GENERATION_MODEL_VERSION", ""),
			SafetyFilterRef: getEnv("GENERATION_SAFETY_FILTER_REF", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Insurance Assistant"),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			GeminiAPIKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			JinaAPIKey:        getEnv("JINA_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			IngestionTopic:    getEnv("DOCUMENT_UPLOADED_TOPIC_NAME", constant.DocumentUploadedTopic),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
