package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort             string   `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL          string   `env:"DATABASE_URL,required"`
	JWTSecret            string   `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int      `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int      `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`
	PublicBaseURL        string   `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	CORSOrigins          []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"https://socialink-8842f.web.app"`
	CookieSecure         bool     `env:"COOKIE_SECURE" envDefault:"true"`
	CookieSameSite       string   `env:"COOKIE_SAMESITE" envDefault:"none"`
	SMTPHost             string   `env:"SMTP_HOST"`
	SMTPPort             int      `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser             string   `env:"SMTP_USER"`
	SMTPPass             string   `env:"SMTP_PASS"`
	SMTPFrom             string   `env:"SMTP_FROM"`
	SMTPFromName         string   `env:"SMTP_FROM_NAME"`
	SMTPUseTLS           bool     `env:"SMTP_USE_TLS" envDefault:"false"`
	RedisAddr            string   `env:"REDIS_ADDR"`
	RedisPassword        string   `env:"REDIS_PASSWORD"`
	RedisDB              int      `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
