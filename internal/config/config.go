package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	UploadDir      string   `mapstructure:"UPLOAD_DIR"`
	SessionSecret  string   `mapstructure:"SESSION_SECRET"`
	SessionTTL     int      `mapstructure:"SESSION_TTL_HOURS"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	SMTPAddr       string   `mapstructure:"SMTP_ADDR"`
	MailFrom       string   `mapstructure:"FROM_EMAIL"`
	MailNotify     string   `mapstructure:"NOTIFICATION_EMAIL"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("SESSION_TTL_HOURS", 168)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("UPLOAD_DIR")
	v.BindEnv("SESSION_SECRET")
	v.BindEnv("SESSION_TTL_HOURS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("SMTP_ADDR")
	v.BindEnv("FROM_EMAIL")
	v.BindEnv("NOTIFICATION_EMAIL")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ====================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active — all requests act as dev-user.")
		log.Println("WARNING: Set ENV=production and SESSION_SECRET for production.")
		log.Println("WARNING: ====================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// a SESSION_SECRET is required so that session cookies and bearer tokens are
// actually verified.
func (c *Config) Validate() error {
	if !c.IsDev() && c.SessionSecret == "" {
		return fmt.Errorf(
			"SESSION_SECRET must be set when ENV is %q. "+
				"Refusing to start without authentication configuration", c.Env)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", c.SessionTTL)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	if c.MailNotify != "" && c.MailFrom == "" {
		return fmt.Errorf("FROM_EMAIL is required when NOTIFICATION_EMAIL is set")
	}
	return nil
}
