package core

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/mnemosyne-labs/mnemosyne-go/pkg/cluster"
	"github.com/mnemosyne-labs/mnemosyne-go/pkg/layout"
)

// Config contains the complete configuration for a Mnemosyne client.
//
// It includes settings for:
//   - Analyzer provider (AI media analysis or deterministic synthesis)
//   - Snapshot stores (session persistence tiers)
//   - Pipeline behavior (clustering threshold, layout mode)
//   - The optional HTTP server
//
// Example:
//
//	config := &core.Config{
//	    Analyzer: core.AnalyzerConfig{
//	        Provider: "synthetic",
//	        Dimensions: 24,
//	    },
//	    Snapshot: core.SnapshotConfig{
//	        Provider:   "sqlite",
//	        SQLitePath: "./mnemosyne.db",
//	    },
//	    Pipeline: core.PipelineConfig{
//	        ClusterThreshold: 0.5,
//	        LayoutMode:       layout.ModeRadial,
//	    },
//	}
type Config struct {
	// Analyzer contains analyzer provider configuration.
	Analyzer AnalyzerConfig `json:"analyzer"`

	// Snapshot contains snapshot store configuration.
	Snapshot SnapshotConfig `json:"snapshot"`

	// Pipeline contains clustering and layout behavior.
	Pipeline PipelineConfig `json:"pipeline"`

	// Server contains HTTP server configuration (used by cmd/mnemosyned).
	Server ServerConfig `json:"server"`
}

// AnalyzerConfig contains configuration for the analysis provider.
//
// Supported providers: openai, synthetic
type AnalyzerConfig struct {
	// Provider is the analyzer provider name (openai, synthetic).
	Provider string `json:"provider"`

	// APIKey is the API key for the AI provider (openai only).
	APIKey string `json:"api_key"`

	// Model is the chat model used for analysis (openai only).
	Model string `json:"model"`

	// BaseURL is the base URL for the API (optional).
	BaseURL string `json:"base_url,omitempty"`

	// Dimensions is the embedding vector length. Defaults to 24 for the
	// synthetic provider and 1536 for openai.
	Dimensions int `json:"dimensions,omitempty"`
}

// SnapshotConfig contains configuration for session persistence.
//
// Supported providers: memory, sqlite, postgres, mysql. The provider
// names the remote tier; a local SQLite tier is always kept underneath a
// remote provider so sessions survive even when the remote store is
// unreachable. "memory" disables persistence entirely.
type SnapshotConfig struct {
	// Provider is the snapshot store provider name.
	Provider string `json:"provider"`

	// SQLitePath is the path of the local SQLite database file.
	SQLitePath string `json:"sqlite_path,omitempty"`

	// Postgres contains PostgreSQL connection parameters.
	Postgres SQLConfig `json:"postgres,omitempty"`

	// MySQL contains MySQL connection parameters.
	MySQL SQLConfig `json:"mysql,omitempty"`
}

// SQLConfig contains connection parameters for a SQL snapshot store.
type SQLConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode,omitempty"`
}

// PipelineConfig contains clustering and layout behavior.
type PipelineConfig struct {
	// ClusterThreshold is the average-similarity threshold for the
	// greedy cluster builder. Defaults to 0.5.
	ClusterThreshold float64 `json:"cluster_threshold"`

	// LayoutMode is the canonical layout mode for session museums
	// (radial or tunnel). Defaults to radial; category museums always
	// use the tunnel.
	LayoutMode layout.Mode `json:"layout_mode"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr"`
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct
//
// Supported environment variables:
//   - DATABASE_PROVIDER (memory, sqlite, postgres, mysql)
//   - SQLITE_PATH
//   - POSTGRES_HOST, POSTGRES_PORT, POSTGRES_USER, POSTGRES_PASSWORD,
//     POSTGRES_DATABASE, POSTGRES_SSLMODE
//   - MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DATABASE
//   - ANALYZER_PROVIDER (openai, synthetic), ANALYZER_API_KEY,
//     ANALYZER_MODEL, ANALYZER_BASE_URL, EMBEDDING_DIMENSIONS
//   - CLUSTER_THRESHOLD, LAYOUT_MODE (radial, tunnel)
//   - SERVER_ADDR
//
// Returns a Config instance, or an error if loading fails.
//
// Example:
//
//	config, err := core.LoadConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfigFromEnv() (*Config, error) {
	// Use FindEnvFile to locate .env file (supports upward search)
	if envPath, found := FindEnvFile(); found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	provider := getEnvOrDefault("DATABASE_PROVIDER", "sqlite")

	snapshot := SnapshotConfig{
		Provider:   provider,
		SQLitePath: getEnvOrDefault("SQLITE_PATH", "./mnemosyne.db"),
	}

	switch provider {
	case "postgres":
		port, _ := strconv.Atoi(getEnvOrDefault("POSTGRES_PORT", "5432"))
		snapshot.Postgres = SQLConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     port,
			User:     getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   getEnvOrDefault("POSTGRES_DATABASE", "mnemosyne"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		}
	case "mysql":
		port, _ := strconv.Atoi(getEnvOrDefault("MYSQL_PORT", "3306"))
		snapshot.MySQL = SQLConfig{
			Host:     getEnvOrDefault("MYSQL_HOST", "127.0.0.1"),
			Port:     port,
			User:     getEnvOrDefault("MYSQL_USER", "root"),
			Password: os.Getenv("MYSQL_PASSWORD"),
			DBName:   getEnvOrDefault("MYSQL_DATABASE", "mnemosyne"),
		}
	}

	analyzerProvider := getEnvOrDefault("ANALYZER_PROVIDER", "synthetic")
	defaultDims := "24"
	if analyzerProvider == "openai" {
		defaultDims = "1536"
	}
	dims, _ := strconv.Atoi(getEnvOrDefault("EMBEDDING_DIMENSIONS", defaultDims))

	threshold, err := strconv.ParseFloat(getEnvOrDefault("CLUSTER_THRESHOLD", "0.5"), 64)
	if err != nil {
		threshold = cluster.DefaultThreshold
	}

	config := &Config{
		Analyzer: AnalyzerConfig{
			Provider:   analyzerProvider,
			APIKey:     os.Getenv("ANALYZER_API_KEY"),
			Model:      getEnvOrDefault("ANALYZER_MODEL", "gpt-4o-mini"),
			BaseURL:    os.Getenv("ANALYZER_BASE_URL"),
			Dimensions: dims,
		},
		Snapshot: snapshot,
		Pipeline: PipelineConfig{
			ClusterThreshold: threshold,
			LayoutMode:       layout.Mode(getEnvOrDefault("LAYOUT_MODE", string(layout.ModeRadial))),
		},
		Server: ServerConfig{
			Addr: getEnvOrDefault("SERVER_ADDR", ":8080"),
		},
	}

	return config, nil
}

// Validate validates the configuration.
//
// Checks that all required fields are set and enumerated values are
// known:
//   - Analyzer provider must be openai or synthetic
//   - Snapshot provider must be memory, sqlite, postgres, or mysql
//   - Layout mode must be radial or tunnel
//   - Cluster threshold must be positive
//
// Returns an error if validation fails, nil otherwise.
func (c *Config) Validate() error {
	switch c.Analyzer.Provider {
	case "openai", "synthetic":
	default:
		return NewError("Validate", ErrInvalidConfig)
	}

	switch c.Snapshot.Provider {
	case "memory", "sqlite", "postgres", "mysql":
	default:
		return NewError("Validate", ErrInvalidConfig)
	}

	if !c.Pipeline.LayoutMode.IsValid() {
		return NewError("Validate", ErrInvalidConfig)
	}
	if c.Pipeline.ClusterThreshold <= 0 {
		return NewError("Validate", ErrInvalidConfig)
	}
	return nil
}

// getEnvOrDefault gets an environment variable or returns the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FindEnvFile searches for .env or .env.example files.
//
// The search:
//  1. Checks the current directory
//  2. Searches up to 5 directory levels up
//  3. Returns the first .env or .env.example file found
//
// Returns:
//   - path: Path to the found file (empty if not found)
//   - found: True if a file was found, false otherwise
func FindEnvFile() (string, bool) {
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
