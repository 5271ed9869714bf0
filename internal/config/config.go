package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DBUrl      string
	JWTSecret  string
	ServerPort string
	BaseURL    string

	UploadDir   string
	MaxUploadMB int64

	// Valida domínio do e-mail no cadastro (MX lookup)
	EmailMXCheck bool

	MailHost     string
	MailPort     string
	MailUsername string
	MailPassword string
	MailSender   string

	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectURL   string
	OAuthTokenFile     string

	OpenAIKey   string
	OpenAIModel string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ChatbotRateLimit  int
	ChatbotRateWindow int // segundos

	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3BaseURL   string
}

func Load() *Config {
	return &Config{
		DBUrl:      getEnv("DATABASE_URL", "petcloud.db"),
		JWTSecret:  getEnv("JWT_SECRET", "changeme"),
		ServerPort: getEnv("SERVER_PORT", "5000"),
		BaseURL:    getEnv("APP_BASE_URL", "http://localhost:5000"),

		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB: getEnvInt64("MAX_UPLOAD_MB", 16),

		EmailMXCheck: getEnvBool("EMAIL_MX_CHECK", true),

		MailHost:     getEnv("MAIL_SERVER", "smtp.gmail.com"),
		MailPort:     getEnv("MAIL_PORT", "587"),
		MailUsername: getEnv("MAIL_USERNAME", ""),
		MailPassword: getEnv("MAIL_PASSWORD", ""),
		MailSender:   getEnv("MAIL_DEFAULT_SENDER", "PetCloud"),

		GoogleClientID:     getEnv("GOOGLE_OAUTH_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_OAUTH_CLIENT_SECRET", ""),
		OAuthRedirectURL:   getEnv("GOOGLE_OAUTH_REDIRECT_URL", "http://localhost:5000/api/oauth/callback"),
		OAuthTokenFile:     getEnv("OAUTH_TOKEN_FILE", "token.json"),

		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       int(getEnvInt64("REDIS_DB", 0)),

		ChatbotRateLimit:  int(getEnvInt64("CHATBOT_RATE_LIMIT", 20)),
		ChatbotRateWindow: int(getEnvInt64("CHATBOT_RATE_WINDOW", 60)),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3BaseURL:   getEnv("S3_BASE_URL", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}

func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
