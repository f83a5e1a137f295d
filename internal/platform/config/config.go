package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	APIPort       string        `env:"API_PORT" envDefault:"8080"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"defaultsecret"`
	JWTExp        time.Duration `env:"JWT_EXPIRATION" envDefault:"72h"`

	// DBDriver selects the document store dialect: "postgres" or "sqlite".
	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"user"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"password"`
	DBName     string `env:"DB_NAME" envDefault:"grampanchayat"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/grampanchayat.db"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	ObjectStorePath string `env:"OBJECT_STORE_PATH" envDefault:"data/objects.db"`
	MaxUploadBytes  int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`

	TenantRegistryPath string `env:"TENANT_REGISTRY_PATH" envDefault:"tenants.yaml"`

	TranslateBaseURL  string        `env:"TRANSLATE_BASE_URL" envDefault:"https://api.mymemory.translated.net"`
	TranslateEmail    string        `env:"TRANSLATE_CONTACT_EMAIL"`
	TranslateTimeout  time.Duration `env:"TRANSLATE_TIMEOUT" envDefault:"5s"`
	TranslateDebounce time.Duration `env:"TRANSLATE_DEBOUNCE" envDefault:"1500ms"`
	TranslateCacheTTL time.Duration `env:"TRANSLATE_CACHE_TTL" envDefault:"720h"`

	BackfillQueueName      string        `env:"BACKFILL_QUEUE_NAME" envDefault:"translation_backfill_jobs"`
	BackfillLockTTL        time.Duration `env:"BACKFILL_LOCK_TTL" envDefault:"10m"`
	BackfillRetryDelay     time.Duration `env:"BACKFILL_RETRY_DELAY" envDefault:"2s"`
	BackfillPollInterval   time.Duration `env:"BACKFILL_POLL_INTERVAL" envDefault:"5s"`
	EditorMaxFieldsPerConn int           `env:"EDITOR_MAX_FIELDS_PER_CONN" envDefault:"64"`

	DBConnStr string `env:"-"`
}

var AppConfig *Config

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	AppConfig = cfg
}

// Parse builds a Config from the current environment without touching
// AppConfig.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.TranslateDebounce <= 0 {
		return nil, fmt.Errorf("TRANSLATE_DEBOUNCE must be positive")
	}

	cfg.DBConnStr = "host=" + cfg.DBHost +
		" port=" + cfg.DBPort +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" sslmode=" + cfg.DBSslMode
	return cfg, nil
}

func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}
