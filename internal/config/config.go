package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const (
	StageProd = "prod"
	StageDev  = "dev"

	defaultLogLevel     = "info"
	defaultMigrationDir = "file://db/migration"
)

type Config struct {
	Stage        string
	Port         int
	DatabaseURL  string
	MigrationDir string
	LogLevel     zerolog.Level

	// nil means every board is seeded from the clock
	PlacementSeed *uint64
	GameTTL       time.Duration
	GracePeriod   time.Duration
}

func (c Config) AnalyticsEnabled() bool {
	return c.DatabaseURL != ""
}

// Load reads the environment, pulling in .env first outside of prod.
func Load() (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		// a missing .env in dev is fine; the environment may be set already
		_ = godotenv.Load(".env")
	}
	return FromLookup(os.LookupEnv)
}

func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := Config{
		DatabaseURL:  get("DATABASE_URL"),
		MigrationDir: defaultMigrationDir,
		GameTTL:      time.Minute * 30,
		GracePeriod:  time.Minute * 2,
	}

	cfg.Stage = get("STAGE")
	if cfg.Stage != StageDev && cfg.Stage != StageProd {
		return Config{}, cerr.ErrInvalidStage(cfg.Stage)
	}

	portEnv := get("PORT")
	if portEnv == "" {
		return Config{}, cerr.ErrMissingEnv("PORT")
	}
	port, err := strconv.Atoi(portEnv)
	if err != nil {
		return Config{}, cerr.ErrInvalidEnv("PORT", portEnv, err)
	}
	if port <= 0 || port > 65535 {
		return Config{}, cerr.ErrInvalidEnv("PORT", portEnv, cerr.ErrValueOutOfRange)
	}
	cfg.Port = port

	if dir := get("MIGRATION_DIR"); dir != "" {
		cfg.MigrationDir = dir
	}

	levelEnv := get("LOG_LEVEL")
	if levelEnv == "" {
		levelEnv = defaultLogLevel
	}
	level, err := zerolog.ParseLevel(levelEnv)
	if err != nil {
		return Config{}, cerr.ErrInvalidEnv("LOG_LEVEL", levelEnv, err)
	}
	cfg.LogLevel = level

	if seedEnv := get("PLACEMENT_SEED"); seedEnv != "" {
		seed, err := strconv.ParseUint(seedEnv, 10, 64)
		if err != nil {
			return Config{}, cerr.ErrInvalidEnv("PLACEMENT_SEED", seedEnv, err)
		}
		cfg.PlacementSeed = &seed
	}

	for key, dst := range map[string]*time.Duration{"GAME_TTL": &cfg.GameTTL, "GRACE_PERIOD": &cfg.GracePeriod} {
		raw := get(key)
		if raw == "" {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, cerr.ErrInvalidEnv(key, raw, err)
		}
		if d <= 0 {
			return Config{}, cerr.ErrInvalidEnv(key, raw, cerr.ErrValueOutOfRange)
		}
		*dst = d
	}

	return cfg, nil
}
