package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Env         string
	Debug       bool
	MongoURI    string
	MongoDB     string
	CORSOrigins string

	JWTSecret string
	JWTTTL    time.Duration

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProfileCacheTTL time.Duration

	StorageDriver string
	UploadDir     string
	PublicBaseURL string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	S3PublicURL   string

	SMTPHost    string
	SMTPPort    string
	SMTPUser    string
	SMTPPass    string
	MailFrom    string
	FrontendURL string

	AuthRatePerMinute int
	AuthRateBurst     int

	AnalyticsRetention time.Duration
	ProfanityWords     []string
}

var ErrMissingSecret = errors.New("JWT_SECRET is required")

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "10000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DEBUG", false)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "infinity")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PROFILE_CACHE_TTL", "5m")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("PUBLIC_BASE_URL", "/uploads")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_PUBLIC_URL", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", "587")
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("AUTH_RATE_PER_MINUTE", 10)
	v.SetDefault("AUTH_RATE_BURST", 20)
	v.SetDefault("ANALYTICS_RETENTION_DAYS", 90)
	v.SetDefault("PROFANITY_WORDS", "")
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:        v.GetString("PORT"),
		Env:         v.GetString("APP_ENV"),
		Debug:       v.GetBool("DEBUG"),
		MongoURI:    v.GetString("MONGO_URI"),
		MongoDB:     v.GetString("MONGO_DB"),
		CORSOrigins: v.GetString("CORS_ORIGINS"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    v.GetDuration("JWT_TTL"),

		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		ProfileCacheTTL: v.GetDuration("PROFILE_CACHE_TTL"),

		StorageDriver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		UploadDir:     v.GetString("UPLOAD_DIR"),
		PublicBaseURL: v.GetString("PUBLIC_BASE_URL"),
		S3Bucket:      v.GetString("S3_BUCKET"),
		S3Region:      v.GetString("S3_REGION"),
		S3Endpoint:    v.GetString("S3_ENDPOINT"),
		S3AccessKey:   v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:   v.GetString("S3_SECRET_KEY"),
		S3PublicURL:   v.GetString("S3_PUBLIC_URL"),

		SMTPHost:    v.GetString("SMTP_HOST"),
		SMTPPort:    v.GetString("SMTP_PORT"),
		SMTPUser:    v.GetString("SMTP_USER"),
		SMTPPass:    v.GetString("SMTP_PASS"),
		MailFrom:    v.GetString("MAIL_FROM"),
		FrontendURL: v.GetString("FRONTEND_URL"),

		AuthRatePerMinute: v.GetInt("AUTH_RATE_PER_MINUTE"),
		AuthRateBurst:     v.GetInt("AUTH_RATE_BURST"),

		AnalyticsRetention: time.Duration(v.GetInt("ANALYTICS_RETENTION_DAYS")) * 24 * time.Hour,
		ProfanityWords:     splitList(v.GetString("PROFANITY_WORDS")),
	}
	if cfg.JWTSecret == "" {
		return cfg, ErrMissingSecret
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) IsProduction() bool { return c.Env == "production" }
