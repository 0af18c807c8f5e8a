package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort          string        `mapstructure:"HTTPPort"`
		Timeout           time.Duration `mapstructure:"HTTPTimeout"`
		RateLimitRequests int           `mapstructure:"rateLimitRequests"`
		RateLimitWindow   time.Duration `mapstructure:"rateLimitWindow"`
	} `mapstructure:"server"`
	Dataset struct {
		Source           string `mapstructure:"source"`
		DestinationsPath string `mapstructure:"destinationsPath"`
		HistoryPath      string `mapstructure:"historyPath"`
	} `mapstructure:"dataset"`
	Recommender struct {
		DefaultCount        int           `mapstructure:"defaultCount"`
		DefaultSimilarCount int           `mapstructure:"defaultSimilarCount"`
		MaxCount            int           `mapstructure:"maxCount"`
		CacheTTL            time.Duration `mapstructure:"cacheTTL"`
		CacheCleanup        time.Duration `mapstructure:"cacheCleanup"`
	} `mapstructure:"recommender"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// TRAVEL_DATASET_SOURCE overrides dataset.source and so on.
	v.SetEnvPrefix("travel")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return Config{}, err
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// Validate checks the settings the recommender cannot run without.
func (c Config) Validate() error {
	switch c.Dataset.Source {
	case SourceCSV:
		if c.Dataset.DestinationsPath == "" || c.Dataset.HistoryPath == "" {
			return fmt.Errorf("dataset.destinationsPath and dataset.historyPath are required for the csv source")
		}
	case SourcePostgres:
		if c.Repositories.Postgres.Host == "" {
			return fmt.Errorf("repositories.postgres.host is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown dataset source %q", c.Dataset.Source)
	}
	if c.Recommender.DefaultCount < 0 || c.Recommender.DefaultSimilarCount < 0 || c.Recommender.MaxCount < 0 {
		return fmt.Errorf("recommender counts must not be negative")
	}
	if c.Server.RateLimitRequests > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rateLimitWindow must be positive when rate limiting is enabled")
	}
	return nil
}
