package config

import "os"

type Config struct {
	MongoURI  string
	RedisAddr string
	HTTPPort  string
	Env       string
}

func Load() *Config {
	return &Config{
		MongoURI:  getEnv("MONGO_URI", "mongodb://localhost:27017"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:  getEnv("HTTP_PORT", "8080"),
		Env:       getEnv("ENV", "development"),
	}
}

// Production reports whether diagnostics should be suppressed.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
