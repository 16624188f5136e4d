package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
	Mock     MockConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

type KafkaConfig struct {
	Brokers       []string
	TopicEvents   string
	ConsumerGroup string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

// MockConfig holds the delays that drive the simulated flows.
type MockConfig struct {
	AuthDelay     time.Duration
	RedirectDelay time.Duration
	WordInterval  time.Duration
	SettleDelay   time.Duration
	MatchDelay    time.Duration
	// AuthRetention is how long a redirected auth session stays readable
	AuthRetention time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	idemTTL, _ := strconv.Atoi(getEnv("IDEMPOTENCY_TTL_SECONDS", "86400"))

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Env:         getEnv("ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", ""),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             redisDB,
			IdempotencyTTL: time.Duration(idemTTL) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "")),
			TopicEvents:   getEnv("KAFKA_TOPIC_MARKET_EVENTS", "market-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "voicemarket-activity"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		},
		Mock: MockConfig{
			AuthDelay:     getMillis("AUTH_DELAY_MS", 2000),
			RedirectDelay: getMillis("REDIRECT_DELAY_MS", 1500),
			WordInterval:  getMillis("WORD_INTERVAL_MS", 300),
			SettleDelay:   getMillis("SETTLE_DELAY_MS", 500),
			MatchDelay:    getMillis("MATCH_DELAY_MS", 2000),
			AuthRetention: getMillis("AUTH_RETENTION_MS", 30000),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getMillis(key string, defaultMs int) time.Duration {
	ms, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultMs)))
	if err != nil || ms < 0 {
		ms = defaultMs
	}
	return time.Duration(ms) * time.Millisecond
}

// splitList turns a comma separated value into a slice, dropping blanks.
func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
