package internal

import (
	"log"
	"os"
)

// Config is loaded once at startup from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	S3Bucket           string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	FFmpegPath  string
	FFprobePath string

	CookieSecure bool
}

// LoadConfig reads the environment. DATABASE_URL, JWT_SECRET and S3_BUCKET
// have no sensible defaults and are fatal when missing.
func LoadConfig() Config {
	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: mustGetenv("DATABASE_URL"),
		JWTSecret:   mustGetenv("JWT_SECRET"),

		S3Bucket:           mustGetenv("S3_BUCKET"),
		AWSRegion:          getenv("AWS_REGION", "us-east-2"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),

		FFmpegPath:  getenv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: getenv("FFPROBE_PATH", "ffprobe"),

		CookieSecure: os.Getenv("COOKIE_SECURE") == "1",
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func mustGetenv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("%s is required", key)
	}
	return val
}
