package config

import (
	"flag"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config — настройки сервера. Заполняется один раз в main и передаётся
// по указателю; никаких глобальных синглтонов.
type Config struct {
	RunAddr     string `env:"RUN_ADDRESS"`
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`

	// Время жизни access-токена в минутах
	TokenTTLMinutes int `env:"TOKEN_TTL_MINUTES"`

	UploadDir       string `env:"UPLOAD_DIR"`
	MaxUploadSizeMB int64  `env:"MAX_UPLOAD_SIZE_MB"`

	// Список разрешённых CORS-источников через запятую
	CORSOrigins string `env:"CORS_ORIGINS"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "адрес и порт сервера")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.IntVar(&cfg.TokenTTLMinutes, "token-ttl", cfg.TokenTTLMinutes, "время жизни токена, минут")
	flag.StringVar(&cfg.UploadDir, "upload-dir", cfg.UploadDir, "каталог для загружаемых файлов")
	flag.Int64Var(&cfg.MaxUploadSizeMB, "max-upload", cfg.MaxUploadSizeMB, "лимит размера загрузки, МБ")
	flag.StringVar(&cfg.CORSOrigins, "cors-origins", cfg.CORSOrigins, "разрешённые CORS-источники через запятую")

	flag.Parse()

	// Defaults
	if cfg.RunAddr == "" {
		cfg.RunAddr = "localhost:8080"
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.TokenTTLMinutes <= 0 {
		cfg.TokenTTLMinutes = 60 * 24 * 8 // 8 дней
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if cfg.MaxUploadSizeMB <= 0 {
		cfg.MaxUploadSizeMB = 20
	}

	return cfg
}

// MaxUploadSizeBytes — лимит размера загрузки в байтах.
func (c *Config) MaxUploadSizeBytes() int64 {
	return c.MaxUploadSizeMB * 1024 * 1024
}

// AllowedOrigins возвращает CORS-источники списком. Пустая настройка
// означает «разрешить всем».
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.CORSOrigins) == "" {
		return []string{"*"}
	}
	parts := strings.Split(c.CORSOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			origins = append(origins, s)
		}
	}
	return origins
}
