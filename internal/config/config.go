// ABOUTME: Centralized configuration for the maitre chat core
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Vector store backends.
const (
	BackendQdrant = "qdrant"
	BackendCharm  = "charm"
	BackendMemory = "memory"
)

// Classifier modes.
const (
	ClassifierRules = "rules"
	ClassifierLLM   = "llm"
)

// Config holds all configuration for the chat core. Constructed once at
// startup and passed explicitly to each collaborator.
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	VectorDim      int

	// Vector store settings
	VectorBackend string
	QdrantURL     string
	QdrantAPIKey  string
	Collection    string
	CharmHost     string

	// Live search settings
	TavilyKey string
	TavilyURL string

	// Ingestion settings
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	StagingDir   string

	// Routing settings
	Classifier string

	// External call settings
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Load reads configuration from environment variables.
// Missing required configuration is a startup error, never a per-request one.
func Load() (*Config, error) {
	cfg := &Config{
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("MAITRE_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("MAITRE_EMBEDDING_MODEL", "text-embedding-3-small"),
		VectorDim:      getEnvInt("VECTOR_DIMENSION", 1536),

		VectorBackend: getEnv("MAITRE_VECTOR_BACKEND", BackendQdrant),
		QdrantURL:     os.Getenv("QDRANT_URL"),
		QdrantAPIKey:  os.Getenv("QDRANT_API_KEY"),
		Collection:    getEnv("MAITRE_COLLECTION", "maitre-documents"),
		CharmHost:     getEnv("CHARM_HOST", "charm.2389.dev"),

		TavilyKey: os.Getenv("TAVILY_API_KEY"),
		TavilyURL: getEnv("TAVILY_URL", "https://api.tavily.com"),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 800),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 160),
		TopK:         getEnvInt("TOP_K", 5),
		StagingDir:   os.Getenv("MAITRE_STAGING_DIR"),

		Classifier: getEnv("MAITRE_CLASSIFIER", ClassifierRules),

		Timeout:    getEnvDuration("MAITRE_TIMEOUT", 30*time.Second),
		MaxRetries: getEnvInt("MAITRE_MAX_RETRIES", 3),
		RetryDelay: getEnvDuration("MAITRE_RETRY_DELAY", 2*time.Second),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.TavilyKey == "" {
		return fmt.Errorf("TAVILY_API_KEY is required")
	}

	switch c.VectorBackend {
	case BackendQdrant:
		if c.QdrantURL == "" {
			return fmt.Errorf("QDRANT_URL is required for the qdrant backend")
		}
	case BackendCharm, BackendMemory:
	default:
		return fmt.Errorf("MAITRE_VECTOR_BACKEND must be qdrant, charm, or memory, got %q", c.VectorBackend)
	}

	if c.VectorDim <= 0 {
		return fmt.Errorf("VECTOR_DIMENSION must be positive, got %d", c.VectorDim)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap <= 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must satisfy 0 < overlap < CHUNK_SIZE, got %d with CHUNK_SIZE %d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be positive, got %d", c.TopK)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("MAITRE_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}

	switch c.Classifier {
	case ClassifierRules, ClassifierLLM:
	default:
		return fmt.Errorf("MAITRE_CLASSIFIER must be rules or llm, got %q", c.Classifier)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
