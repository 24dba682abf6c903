package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix de las variables de entorno. Cada variable acepta también su
// nombre sin prefijo (p.ej. DENTI_PORT o PORT).
const Prefix = "DENTI"

// DevJWTSecret es el secreto por defecto; solo se acepta con DEV_AUTH=true.
const DevJWTSecret = "dev-secret-change-me"

type Config struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`

	// Si DB_DSN está vacío se usan repos in-memory.
	DBDSN string `envconfig:"DB_DSN"`

	// Si REDIS_ADDR está vacío la revocación de tokens queda en memoria.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Con DEV_AUTH=true la API acepta X-Debug-User-ID en lugar de Bearer.
	DevAuth bool `envconfig:"DEV_AUTH" default:"false"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// Intentos de login por email: SIGNIN_RATE por segundo con ráfaga SIGNIN_BURST.
	SignInRate  float64 `envconfig:"SIGNIN_RATE" default:"0.2"`
	SignInBurst int     `envconfig:"SIGNIN_BURST" default:"5"`

	Geocoder     string `envconfig:"GEOCODER" default:"static"`
	NominatimURL string `envconfig:"NOMINATIM_URL" default:"https://nominatim.openstreetmap.org"`

	SessionResolveWait time.Duration `envconfig:"SESSION_RESOLVE_WAIT" default:"2s"`
	CookieSecure       bool          `envconfig:"COOKIE_SECURE" default:"false"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	AppName   string `envconfig:"APP_NAME" default:"denti-directory"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: JWT_SECRET required")
	}
	if c.JWTSecret == DevJWTSecret && !c.DevAuth {
		return fmt.Errorf("config: JWT_SECRET must be set outside DEV_AUTH mode")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive")
	}
	switch c.Geocoder {
	case "static", "nominatim":
	default:
		return fmt.Errorf("config: unknown GEOCODER %q", c.Geocoder)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}
