package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const appID = "fastlane"

type Config struct {
	LogLevel string `envconfig:"log_level" default:"info"`

	Storage           string        `envconfig:"storage" default:"memory"`
	CartKey           string        `envconfig:"cart_key" default:"cart"`
	CartWriteTimeout  time.Duration `envconfig:"cart_write_timeout" default:"2s"`
	NotificationDelay time.Duration `envconfig:"notification_delay" default:"3s"`

	RedisAddr     string        `envconfig:"redis_addr" default:"localhost:6379"`
	RedisPassword string        `envconfig:"redis_password"`
	RedisDB       int           `envconfig:"redis_db" default:"0"`
	RedisPrefix   string        `envconfig:"redis_prefix" default:"fastlane:"`
	RedisTTL      time.Duration `envconfig:"redis_ttl" default:"0s"`

	PGHost     string `envconfig:"pg_host" default:"localhost"`
	PGPort     string `envconfig:"pg_port" default:"5432"`
	PGUser     string `envconfig:"pg_user" default:"postgres"`
	PGPassword string `envconfig:"pg_password"`
	PGDBName   string `envconfig:"pg_dbname" default:"fastlane"`
	PGSSLMode  string `envconfig:"pg_sslmode" default:"require"`

	CatalogSource  string        `envconfig:"catalog_source" default:"http"`
	CatalogBaseURL string        `envconfig:"catalog_base_url" default:"http://localhost:5173"`
	CatalogPath    string        `envconfig:"catalog_path" default:"/data/categories.json"`
	CatalogTimeout time.Duration `envconfig:"catalog_timeout" default:"10s"`
	S3Region       string        `envconfig:"s3_region" default:"us-west-2"`
	S3Bucket       string        `envconfig:"s3_bucket"`
	S3Key          string        `envconfig:"s3_key" default:"data/categories.json"`
	FallbackCSV    string        `envconfig:"fallback_csv"`

	LambdaHandler string `envconfig:"lambda_handler" default:"api"`
}

// Load reads an optional .env file and then the FASTLANE_* environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to load %s", file)
		}
	}

	c := &Config{}
	if err := envconfig.Process(appID, c); err != nil {
		return nil, errors.Wrap(err, "failed to parse env")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// PersistentStorage reports whether the cart outlives the process.
func (c *Config) PersistentStorage() bool {
	return c.Storage != "memory"
}

func (c *Config) validate() error {
	switch c.Storage {
	case "memory", "redis", "postgres":
	default:
		return errors.Errorf("unknown storage backend %q", c.Storage)
	}
	switch c.CatalogSource {
	case "http":
	case "s3":
		if c.S3Bucket == "" {
			return errors.New("FASTLANE_S3_BUCKET is required for the s3 catalog source")
		}
	default:
		return errors.Errorf("unknown catalog source %q", c.CatalogSource)
	}
	switch c.LambdaHandler {
	case "api", "s3":
	default:
		return errors.Errorf("unknown lambda handler %q", c.LambdaHandler)
	}
	return nil
}
