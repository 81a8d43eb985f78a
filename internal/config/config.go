package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"invoice-dashboard-backend/internal/auth"

	"github.com/ilyakaznacheev/cleanenv"
)

// Duration parses env as time.Duration: "10s", "5m" or a bare number of seconds.
type Duration time.Duration

func (d *Duration) SetValue(data string) error {
	v, err := parseDuration(data)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

func parseDuration(s string) (time.Duration, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	DB       DBConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Invoices InvoicesConfig
}

type AppConfig struct {
	Name      string `env:"APP_NAME" env-default:"invoice-dashboard"`
	Env       string `env:"APP_ENV" env-default:"dev"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`
}

type HTTPConfig struct {
	Port         string   `env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout  Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	// Comma separated.
	AllowOrigins string `env:"CORS_ALLOW_ORIGINS" env-default:"http://localhost:3000"`
}

type DBConfig struct {
	URL          string `env:"DATABASE_URL" env-required:"true"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" env-default:"2"`
}

type RedisConfig struct {
	Addr     string   `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string   `env:"REDIS_PASSWORD" env-default:""`
	DB       int      `env:"REDIS_DB" env-default:"0"`
	CacheTTL Duration `env:"CACHE_TTL" env-default:"60"`
}

type AuthConfig struct {
	SessionCookie string `env:"AUTH_SESSION_COOKIE" env-default:"session_id"`
	LoginPath     string `env:"AUTH_LOGIN_PATH" env-default:"/login"`
}

type InvoicesConfig struct {
	// DeleteEnabled switches the delete action from always failing to
	// actually removing the row.
	DeleteEnabled bool `env:"INVOICES_DELETE_ENABLED" env-default:"false"`
}

// Origins splits AllowOrigins into a trimmed list.
func (h HTTPConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(h.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if !strings.HasPrefix(cfg.Auth.LoginPath, "/") {
		return Config{}, fmt.Errorf("AUTH_LOGIN_PATH must start with /, got %q", cfg.Auth.LoginPath)
	}
	// Anonymous dashboard requests are sent to the login page, so it must
	// not be a dashboard page itself.
	if auth.IsDashboardPath(cfg.Auth.LoginPath) {
		return Config{}, fmt.Errorf("AUTH_LOGIN_PATH must be outside %s, got %q", auth.DashboardPath, cfg.Auth.LoginPath)
	}
	return cfg, nil
}
