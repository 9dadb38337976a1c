package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Costline"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"costline"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	// Ingest holds the default column-detection hint words. Callers may
	// override any list per ingestion.
	Ingest struct {
		JobHints       []string `envconfig:"INGEST_JOB_HINTS" default:"job"`
		NameHints      []string `envconfig:"INGEST_NAME_HINTS" default:"project name,name,description"`
		FinancialHints []string `envconfig:"INGEST_FINANCIAL_HINTS" default:"budget,eac,estimate,forecast,actual,cost,committed,commitment,spent,variance,amount,total,$"`
		MaxUpload      int64    `envconfig:"INGEST_MAX_UPLOAD" default:"20971520"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
