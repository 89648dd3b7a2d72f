package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configuration from defaults, an optional config.yaml and the
// environment, in increasing precedence. A .env file in the working directory
// or one of its parents is loaded into the environment first.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	return load(v, false)
}

// LoadFromFile is Load with an explicit config file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	return load(v, true)
}

func load(v *viper.Viper, requireFile bool) (*Config, error) {
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names used by the existing deployment and CLIs.
	_ = v.BindEnv("database.url", "DB_URL", "DATABASE_URL")
	_ = v.BindEnv("server.addr", "SERVER_ADDR", "ADDR")
	_ = v.BindEnv("logging.level", "LOGGING_LEVEL", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || os.IsNotExist(err)
		if requireFile || !missing {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	v.SetDefault("database.url", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", 24*time.Hour)

	v.SetDefault("fdc.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("fdc.api_key", "DEMO_KEY")
	v.SetDefault("fdc.timeout", 10*time.Second)
	v.SetDefault("fdc.page_size", 25)
	v.SetDefault("fdc.batch_size", 20)

	v.SetDefault("ranking.default_limit", 10)
	v.SetDefault("ranking.max_limit", 50)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// loadEnvFile loads the first .env found walking up from the working
// directory. A missing file is not an error.
func loadEnvFile() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		path := filepath.Join(dir, ".env")
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Database.URL == "" {
		return errors.New("database.url is required (set DB_URL)")
	}
	if cfg.FDC.BaseURL == "" {
		return errors.New("fdc.base_url is required")
	}
	if cfg.FDC.BatchSize <= 0 {
		return fmt.Errorf("fdc.batch_size must be positive, got %d", cfg.FDC.BatchSize)
	}
	if cfg.FDC.PageSize <= 0 {
		return fmt.Errorf("fdc.page_size must be positive, got %d", cfg.FDC.PageSize)
	}
	if cfg.Ranking.DefaultLimit <= 0 || cfg.Ranking.MaxLimit < cfg.Ranking.DefaultLimit {
		return fmt.Errorf("ranking limits invalid: default %d, max %d",
			cfg.Ranking.DefaultLimit, cfg.Ranking.MaxLimit)
	}
	return nil
}
