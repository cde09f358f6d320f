package config

import "os"

// Run modes. Demo mode runs entirely on seeded in-memory stores; server mode
// needs PostgreSQL, MongoDB and Redis.
const (
	ModeDemo   = "demo"
	ModeServer = "server"
)

type Config struct {
	Port     string
	Env      string
	Mode     string
	LogLevel string

	PostgresConnStr string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	RedisPassword   string

	// Storage: "local" or "s3"
	StorageBackend string
	MediaRoot      string
	MediaURLPrefix string
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		Mode:     getEnv("APP_MODE", ModeDemo),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		PostgresConnStr: getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "socialconnect"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		MediaRoot:      getEnv("MEDIA_ROOT", "./media"),
		MediaURLPrefix: getEnv("MEDIA_URL_PREFIX", "/media"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:    getEnv("S3_SECRET_ACCESS_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
