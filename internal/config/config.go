package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Tuning collects the retrieval and generation knobs. Values are product
// constants, not protocol requirements; an optional YAML file pointed at by
// TUNING_FILE overrides them.
type Tuning struct {
	ChunkSize        int     `yaml:"chunk_size"`
	ChunkOverlap     int     `yaml:"chunk_overlap"`
	TopK             int     `yaml:"top_k"`
	MaxHistoryTurns  int     `yaml:"max_history_turns"`
	Temperature      float32 `yaml:"temperature"`
	TopP             float32 `yaml:"top_p"`
	MaxOutputTokens  int32   `yaml:"max_output_tokens"`
	FrequencyPenalty float32 `yaml:"frequency_penalty"`
	PresencePenalty  float32 `yaml:"presence_penalty"`
}

type Config struct {
	LLMProvider   string // "gemini" or "openai"
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	DatabaseURL   string
	HTTPPort      string
	LogLevel      string
	DocsDir       string
	Tuning        Tuning
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		LLMProvider:   getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		DatabaseURL:   getEnv("DATABASE_URL", "corpuschat.db"),
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		DocsDir:       getEnv("DOCS_DIR", "data/company_docs"),
		Tuning:        defaultTuning(),
	}

	if path := getEnv("TUNING_FILE", ""); path != "" {
		if err := loadTuningFile(path, &AppConfig.Tuning); err != nil {
			log.Fatalf("Failed to load tuning file %s: %v", path, err)
		}
	}

	// Env overrides beat the tuning file for the integer knobs.
	AppConfig.Tuning.ChunkSize = getEnvAsInt("CHUNK_SIZE", AppConfig.Tuning.ChunkSize)
	AppConfig.Tuning.ChunkOverlap = getEnvAsInt("CHUNK_OVERLAP", AppConfig.Tuning.ChunkOverlap)
	AppConfig.Tuning.TopK = getEnvAsInt("TOP_K", AppConfig.Tuning.TopK)
	AppConfig.Tuning.MaxHistoryTurns = getEnvAsInt("MAX_HISTORY_TURNS", AppConfig.Tuning.MaxHistoryTurns)

	switch AppConfig.LLMProvider {
	case "gemini":
		if AppConfig.GeminiAPIKey == "" {
			log.Fatal("GEMINI_API_KEY environment variable is required")
		}
	case "openai":
		if AppConfig.OpenAIAPIKey == "" {
			log.Fatal("OPENAI_API_KEY environment variable is required")
		}
	default:
		log.Fatalf("Unknown LLM_PROVIDER %q (want gemini or openai)", AppConfig.LLMProvider)
	}
}

func defaultTuning() Tuning {
	return Tuning{
		ChunkSize:        1000,
		ChunkOverlap:     200,
		TopK:             3,
		MaxHistoryTurns:  0, // unbounded, matching the historical behavior
		Temperature:      0.7,
		TopP:             0.9,
		MaxOutputTokens:  200,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.3,
	}
}

func loadTuningFile(path string, tuning *Tuning) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Unmarshal over the defaults so absent keys keep their values.
	return yaml.Unmarshal(data, tuning)
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
