package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort             string `env:"HTTP_PORT" envDefault:"8080"`
	RolAPIBaseURL        string `env:"ROL_API_BASE_URL" envDefault:"https://test-rol.onrender.com/api/postulantes"`
	RolAPITimeoutSeconds int    `env:"ROL_API_TIMEOUT_SECONDS" envDefault:"15"`
	DatabaseURL          string `env:"DATABASE_URL"`
	RedisAddr            string `env:"REDIS_ADDR"`
	RedisPassword        string `env:"REDIS_PASSWORD"`
	RedisDB              int    `env:"REDIS_DB" envDefault:"0"`
	JWTSecret            string `env:"JWT_SECRET"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"60"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"10080"`
	CatalogFile          string `env:"CATALOG_FILE"`
	SinkWorkers          int    `env:"SINK_WORKERS" envDefault:"2"`
	SinkQueueSize        int    `env:"SINK_QUEUE_SIZE" envDefault:"64"`
	SinkTimeoutSeconds   int    `env:"SINK_TIMEOUT_SECONDS" envDefault:"10"`
	ProgressTTLMinutes   int    `env:"PROGRESS_TTL_MINUTES" envDefault:"1440"`
	LoginRateWindowMin   int    `env:"LOGIN_RATE_WINDOW_MINUTES" envDefault:"10"`
	LoginRateMax         int    `env:"LOGIN_RATE_MAX" envDefault:"5"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
