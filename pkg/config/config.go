package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Scratch  ScratchConfig
	Pipeline PipelineConfig
	Storage  StorageConfig
	Speech   SpeechConfig
	Groq     GroqConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	MaxUploadMB     int64    `envconfig:"MAX_UPLOAD_MB" default:"512"`
}

// ScratchConfig holds transient artifact storage configuration
type ScratchConfig struct {
	// Root of the local scratch tree. Each job gets its own subtree
	// (downloads/, audio/, chunks/) underneath it.
	Root string `envconfig:"SCRATCH_ROOT" default:"/tmp/content-analyzer"`
}

// PipelineConfig holds media pipeline tuning knobs
type PipelineConfig struct {
	// ChunkSeconds is the fixed chunk window for audio segmentation.
	ChunkSeconds int `envconfig:"CHUNK_SECONDS" default:"60"`
	// DefaultLanguages are the transcription targets when a request
	// does not specify its own.
	DefaultLanguages []string `envconfig:"DEFAULT_LANGUAGES" default:"en-US,hi-IN"`
	// AltLanguage, when set, is passed to the recognition backend as a
	// secondary language hint so mixed-language audio falls back to
	// backend-side language detection.
	AltLanguage string `envconfig:"ALT_LANGUAGE" default:""`
	// Per-stage wall-clock budgets. Zero disables the budget for a stage.
	DownloadTimeout   time.Duration `envconfig:"DOWNLOAD_TIMEOUT" default:"10m"`
	ExtractTimeout    time.Duration `envconfig:"EXTRACT_TIMEOUT" default:"5m"`
	ChunkTimeout      time.Duration `envconfig:"CHUNK_TIMEOUT" default:"5m"`
	TranscribeTimeout time.Duration `envconfig:"TRANSCRIBE_TIMEOUT" default:"10m"`
	// CacheTTL controls how long URL-keyed analysis results stay cached.
	CacheTTL time.Duration `envconfig:"RESULT_CACHE_TTL" default:"24h"`
}

// StorageConfig holds object store configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"content-analyzer-chunks"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string `envconfig:"STORAGE_PUBLIC_URL" default:""`
}

// SpeechConfig holds speech-to-text backend configuration
type SpeechConfig struct {
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY" default:""`
}

// GroqConfig holds LLM analyzer configuration
type GroqConfig struct {
	APIKey  string `envconfig:"GROQ_API_KEY" default:""`
	BaseURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model   string `envconfig:"GROQ_MODEL" default:"llama-3.3-70b-versatile"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"content_analyzer"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Pipeline.ChunkSeconds <= 0 {
		return fmt.Errorf("CHUNK_SECONDS must be positive, got %d", c.Pipeline.ChunkSeconds)
	}
	if len(c.Pipeline.DefaultLanguages) == 0 {
		return fmt.Errorf("DEFAULT_LANGUAGES must not be empty")
	}
	if c.Scratch.Root == "" {
		return fmt.Errorf("SCRATCH_ROOT is required")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
