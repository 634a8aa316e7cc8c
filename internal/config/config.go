package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every option the service reads from the environment.
// Missing credentials never stop the process; the matching feature degrades instead.
type Config struct {
	Port     string
	LogLevel string
	LogJSON  bool

	VerifyToken     string
	WhatsAppToken   string
	PhoneNumberID   string
	GraphAPIURL     string
	GraphAPIVersion string

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	TranscribeAPIKey  string
	TranscribeBaseURL string
	TranscribeModel   string

	MongoURI      string
	MongoDatabase string
	RedisURL      string

	KnowledgeIndexPath string
	KnowledgeTopK      int

	IdentityCacheTTL time.Duration
	PhoneCountryCode string

	WorkerPoolSize  int
	WorkerQueueSize int

	MessagesFile string
}

func LoadEnv() error {
	err := godotenv.Load(".env")
	if err != nil {
		log.Printf("No .env file loaded, using process environment: %v", err)
		return err
	}
	return nil
}

// Load reads the configuration from the process environment.
func Load() Config {
	return Config{
		Port:     GetEnvOrDefault("PORT", "8080"),
		LogLevel: GetEnvOrDefault("LOG_LEVEL", "info"),
		LogJSON:  GetEnvBool("LOG_JSON", true),

		VerifyToken:     os.Getenv("VERIFY_TOKEN"),
		WhatsAppToken:   os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		PhoneNumberID:   os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		GraphAPIURL:     GetEnvOrDefault("GRAPH_API_URL", "https://graph.facebook.com"),
		GraphAPIVersion: GetEnvOrDefault("GRAPH_API_VERSION", "v18.0"),

		GeminiAPIKey:  strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiBaseURL: GetEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		GeminiModel:   GetEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),

		TranscribeAPIKey:  strings.TrimSpace(os.Getenv("TRANSCRIBE_API_KEY")),
		TranscribeBaseURL: GetEnvOrDefault("TRANSCRIBE_BASE_URL", "https://api.openai.com/v1"),
		TranscribeModel:   GetEnvOrDefault("TRANSCRIBE_MODEL", "whisper-1"),

		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: GetEnvOrDefault("MONGODB_DATABASE", "clinic"),
		RedisURL:      os.Getenv("REDIS_URL"),

		KnowledgeIndexPath: GetEnvOrDefault("KNOWLEDGE_INDEX_PATH", "knowledge_db.bleve"),
		KnowledgeTopK:      GetEnvInt("KNOWLEDGE_TOP_K", 3),

		IdentityCacheTTL: GetEnvDuration("IDENTITY_CACHE_TTL", 300*time.Second),
		PhoneCountryCode: GetEnvOrDefault("PHONE_COUNTRY_CODE", "91"),

		WorkerPoolSize:  GetEnvInt("WORKER_POOL_SIZE", 16),
		WorkerQueueSize: GetEnvInt("WORKER_QUEUE_SIZE", 256),

		MessagesFile: os.Getenv("MESSAGES_FILE"),
	}
}

func GetEnvOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		log.Printf("Invalid value %q for %s, using %d", value, key, fallback)
		return fallback
	}
	return parsed
}

func GetEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid value %q for %s, using %t", value, key, fallback)
		return fallback
	}
	return parsed
}

// GetEnvDuration accepts Go duration strings ("5m") or a plain number of seconds.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		log.Printf("Invalid value %q for %s, using %s", value, key, fallback)
		return fallback
	}
	return parsed
}
