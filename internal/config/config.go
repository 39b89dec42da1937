// Package config loads the parse-request configuration described in
// SPEC_FULL.md §6 (the option table) plus the Neo4j connection settings,
// from environment variables, a YAML file, and built-in defaults, in
// that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ProjectType selects which framework schemas (§4.1) are active for a parse.
type ProjectType string

const (
	ProjectTypeAuto       ProjectType = "auto"
	ProjectTypeNestJS     ProjectType = "nestjs"
	ProjectTypeRepository ProjectType = "repository" // generic DAL/custom-repository pattern, in place of spec's undefined "fairsquare"
	ProjectTypeBoth       ProjectType = "both"
	ProjectTypeVanilla    ProjectType = "vanilla"
)

// StreamingMode controls whether C10 commits stream in chunks.
type StreamingMode string

const (
	StreamingAuto   StreamingMode = "auto"
	StreamingAlways StreamingMode = "always"
	StreamingNever  StreamingMode = "never"
)

// ParseRequest is the configuration surface of SPEC_FULL.md §6's option table.
type ParseRequest struct {
	ProjectPath      string        `yaml:"project_path"`
	TSConfigPath     string        `yaml:"tsconfig_path"`
	ProjectID        string        `yaml:"project_id"`
	ClearExisting    bool          `yaml:"clear_existing"`
	ProjectType      ProjectType   `yaml:"project_type"`
	ChunkSize        int           `yaml:"chunk_size"`
	UseStreaming     StreamingMode `yaml:"use_streaming"`
	Async            bool          `yaml:"async"`
	Watch            bool          `yaml:"watch"`
	WatchDebounceMs  int           `yaml:"watch_debounce_ms"`
	ExcludedNodeTypes []string     `yaml:"excluded_node_types"`
}

// DefaultParseRequest returns the §6 option table's documented defaults.
func DefaultParseRequest() ParseRequest {
	return ParseRequest{
		ClearExisting:   true,
		ProjectType:     ProjectTypeAuto,
		ChunkSize:       50,
		UseStreaming:    StreamingAuto,
		Async:           false,
		Watch:           false,
		WatchDebounceMs: 1000,
	}
}

// Validate fails fast on the configuration errors §7 calls out: a missing
// project path or tsconfig path, before any store mutation happens.
func (r ParseRequest) Validate() error {
	if r.ProjectPath == "" {
		return fmt.Errorf("project_path is required")
	}
	info, err := os.Stat(r.ProjectPath)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("project_path %q is not a directory", r.ProjectPath)
	}
	if r.TSConfigPath == "" {
		return fmt.Errorf("tsconfig_path is required")
	}
	if _, err := os.Stat(r.TSConfigPath); err != nil {
		return fmt.Errorf("tsconfig_path %q does not exist", r.TSConfigPath)
	}
	if r.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", r.ChunkSize)
	}
	return nil
}

// StoreConfig holds the property-graph store connection settings.
type StoreConfig struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// WorkerConfig holds the isolated-worker settings of SPEC_FULL.md §5.
type WorkerConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	StatePath  string        `yaml:"state_path"` // bbolt ledger for async jobs
}

// Config holds all configuration settings.
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Worker WorkerConfig `yaml:"worker"`
}

// Default returns default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Store: StoreConfig{
			URI:      "bolt://localhost:7687",
			User:     "neo4j",
			Database: "neo4j",
		},
		Worker: WorkerConfig{
			Timeout:   30 * time.Minute,
			StatePath: filepath.Join(homeDir, ".tsgraph", "jobs.db"),
		},
	}
}

// Load loads configuration from an optional YAML file, then environment
// variables, then built-in defaults, matching the teacher's precedence order.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("store", cfg.Store)
	v.SetDefault("worker", cfg.Worker)

	v.SetEnvPrefix("TSGRAPH")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("tsgraph")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".tsgraph"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func loadEnvFiles() {
	envFiles := []string{".env.local", ".env"}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		cfg.Store.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		cfg.Store.User = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		cfg.Store.Password = pass
	}
	if db := os.Getenv("NEO4J_DATABASE"); db != "" {
		cfg.Store.Database = db
	}
	if timeout := os.Getenv("TSGRAPH_WORKER_TIMEOUT_MINUTES"); timeout != "" {
		if minutes, err := strconv.Atoi(timeout); err == nil {
			cfg.Worker.Timeout = time.Duration(minutes) * time.Minute
		}
	}
	if path := os.Getenv("TSGRAPH_WORKER_STATE_PATH"); path != "" {
		cfg.Worker.StatePath = expandPath(path)
	}
}

func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, path[1:])
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("store", c.Store)
	v.Set("worker", c.Worker)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
