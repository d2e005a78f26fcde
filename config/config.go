package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingSetting = errors.New("required setting is not set")

// Config holds every setting of the host binary.
type Config struct {
	// DatabaseURL selects the Postgres store; empty keeps state in memory.
	DatabaseURL           string
	JWTSecretKey          string
	JWTTTL                time.Duration
	OrganizerPasswordHash string
	ServerPort            int
	CORSAllowedOrigins    []string
	PresetsFile           string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// ArchiveEnabled reports whether every R2 setting is present.
func (c *Config) ArchiveEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY: %w", ErrMissingSetting)
	}
	passwordHash := getenv("ORGANIZER_PASSWORD_HASH")
	if passwordHash == "" {
		return nil, fmt.Errorf("ORGANIZER_PASSWORD_HASH: %w", ErrMissingSetting)
	}

	portStr := getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	ttl := 12 * time.Hour
	if v := getenv("JWT_TTL"); v != "" {
		if ttl, err = time.ParseDuration(v); err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL environment variable: %w", err)
		}
	}

	origins := []string{"*"}
	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins = origins[:0]
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		DatabaseURL:           getenv("DATABASE_URL"),
		JWTSecretKey:          jwtKey,
		JWTTTL:                ttl,
		OrganizerPasswordHash: passwordHash,
		ServerPort:            port,
		CORSAllowedOrigins:    origins,
		PresetsFile:           getenv("PRESETS_FILE"),
		R2AccountID:           getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:         getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:     getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:          getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:       getenv("R2_PUBLIC_BASE_URL"),
	}, nil
}
