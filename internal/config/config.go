package config

import (
	"encoding/base64"
	"fmt"
	"log"
	"math"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
)

type Secret struct {
	Bytes []byte
}

type Target string

const (
	App    Target = "app"
	Worker Target = "worker"
	Backup Target = "backup"
)

type Config struct {
	// Running localy or not
	Debug  bool   `env:"DEBUG" envDefault:"false"`
	Target Target `env:"TARGET" envDefault:"app"`

	// Sessions
	AuthKey            Secret        `env:"SESSION_AUTH_KEY"`
	EncryptionKey      Secret        `env:"SESSION_ENCRYPTION_KEY"`
	CsrfKey            Secret        `env:"CSRF_KEY"`
	VisitorSessionName string        `env:"VISITOR_SESSION_NAME" envDefault:"_reels"`
	CsrfSessionName    string        `env:"CSRF_SESSION_NAME" envDefault:"_reels_csrf"`
	VisitorTTL         time.Duration `env:"VISITOR_TTL" envDefault:"8760h"`

	// App settings
	AppName      string `env:"APP_NAME" envDefault:"Reels Mixer"`
	Domain       string `env:"DOMAIN" envDefault:"localhost:5000"`
	MaxURLLength int    `env:"MAX_URL_LENGTH" envDefault:"2048"`
	MaxReels     int    `env:"MAX_REELS" envDefault:"200"`

	// Google APIs settings
	YouTubeAPIKey string `env:"YOUTUBE_API_KEY"`

	// Worker settings
	WorkerBatchSize int           `env:"WORKER_BATCH_SIZE" envDefault:"50"`
	WorkerLockTTL   time.Duration `env:"WORKER_LOCK_TTL" envDefault:"10m"`

	// Backup settings
	BackupPrefix string `env:"BACKUP_PREFIX" envDefault:"backups/"`
	BackupKeep   int    `env:"BACKUP_KEEP" envDefault:"7"`

	// Cloudflare R2
	R2BackupBucketName string `env:"R2_BACKUP_BUCKET_NAME"`
	R2AccountId        string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyId      string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey  string `env:"R2_SECRET_ACCESS_KEY"`

	// Redis
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisUsername string        `env:"REDIS_USERNAME"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTimeout  time.Duration `env:"CACHE_TIMEOUT" envDefault:"3600s"`

	// Postgres
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBDatabase string `env:"DB_DATABASE"`
	DBUsername string `env:"DB_USERNAME"`
	DBPassword string `env:"DB_PASSWORD"`
	DBMaxConns int32  `env:"DB_MAX_CONNS" envDefault:"4"`

	// Local app host and port
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"5000"`
}

// New creates new config object
func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse the config; %v", err)
	}
	return cfg
}

// Parse parses the config from the environment
// and validates it against the target.
func Parse() (*Config, error) {

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	numCPU := runtime.NumCPU()
	if numCPU > math.MaxInt32 || numCPU < math.MinInt32 {
		return nil, fmt.Errorf("failed to get proper CPU cores count: %d", numCPU)
	}

	// Cap the DBMaxConns to the number of cores
	cfg.DBMaxConns = max(cfg.DBMaxConns, int32(numCPU))

	// Avoid nonsensical limits
	cfg.MaxURLLength = max(cfg.MaxURLLength, 1)
	cfg.MaxReels = max(cfg.MaxReels, 1)
	cfg.WorkerBatchSize = min(max(cfg.WorkerBatchSize, 1), 50)
	cfg.BackupKeep = max(cfg.BackupKeep, 1)

	if cfg.Target != App {
		return &cfg, nil
	}

	// Check if the app has all the necessary secrets
	secrets := map[string]Secret{
		"SESSION_AUTH_KEY":       cfg.AuthKey,
		"SESSION_ENCRYPTION_KEY": cfg.EncryptionKey,
		"CSRF_KEY":               cfg.CsrfKey,
	}

	for name, secret := range secrets {
		if len(secret.Bytes) == 0 {
			return nil, fmt.Errorf("empty or no secret key defined in env: %s", name)
		}
	}

	// AES-128, AES-192 or AES-256
	switch len(cfg.EncryptionKey.Bytes) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf(
			"invalid SESSION_ENCRYPTION_KEY length %d, needs 16, 24 or 32 bytes",
			len(cfg.EncryptionKey.Bytes),
		)
	}

	return &cfg, nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// It's called by the env library to decode the Secret,
func (s *Secret) UnmarshalText(text []byte) error {

	s.Bytes = make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(s.Bytes, text)
	if err != nil {
		return fmt.Errorf("error decoding a secret key; %w", err)
	}

	s.Bytes = s.Bytes[:n]
	return nil
}
