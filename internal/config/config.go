package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	StreamKafka    = "kafka"
	StreamRabbitMQ = "rabbitmq"
)

type Config struct {
	Server    ServerConfig
	Storage   string
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Analytics AnalyticsConfig
	// AuthorizationRetries bounds how many times a conflicting card update is retried.
	AuthorizationRetries int
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// RequestTimeout must stay below WriteTimeout so handlers can still
	// write their 503 before the connection is cut.
	RequestTimeout time.Duration
}

// clampRequestTimeout keeps RequestTimeout under WriteTimeout.
func (s *ServerConfig) clampRequestTimeout() {
	if s.WriteTimeout <= 0 || s.RequestTimeout < s.WriteTimeout {
		return
	}
	clamped := s.WriteTimeout * 2 / 3
	log.Printf("server request timeout %s is not below write timeout %s, using %s", s.RequestTimeout, s.WriteTimeout, clamped)
	s.RequestTimeout = clamped
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type AuthConfig struct {
	// JWTSecret enables bearer-token checks on user routes when non-empty.
	JWTSecret string
}

type AnalyticsConfig struct {
	StreamDriver string

	KafkaBrokers []string
	KafkaTopic   string

	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	BIPushURL string

	Workers     int
	QueueSize   int
	MaxAttempts int
	Backoff     time.Duration
	Timeout     time.Duration
}

var envBindings = map[string]string{
	"server.port":            "PORT",
	"server.read_timeout":    "SERVER_READ_TIMEOUT",
	"server.write_timeout":   "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":    "SERVER_IDLE_TIMEOUT",
	"server.request_timeout": "SERVER_REQUEST_TIMEOUT",

	"storage.driver": "STORAGE_DRIVER",

	"database.host":              "DATABASE_HOST",
	"database.port":              "DATABASE_PORT",
	"database.user":              "DATABASE_USER",
	"database.password":          "DATABASE_PASSWORD",
	"database.name":              "DATABASE_NAME",
	"database.ssl_mode":          "DATABASE_SSL_MODE",
	"database.max_open_conns":    "DATABASE_MAX_OPEN_CONNS",
	"database.max_idle_conns":    "DATABASE_MAX_IDLE_CONNS",
	"database.conn_max_lifetime": "DATABASE_CONN_MAX_LIFETIME",

	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",

	"jwt.secret_key": "JWT_SECRET_KEY",

	"analytics.stream_driver":    "ANALYTICS_STREAM_DRIVER",
	"analytics.kafka_brokers":    "KAFKA_BROKERS",
	"analytics.kafka_topic":      "KAFKA_TOPIC",
	"analytics.amqp_url":         "AMQP_URL",
	"analytics.amqp_exchange":    "AMQP_EXCHANGE",
	"analytics.amqp_routing_key": "AMQP_ROUTING_KEY",
	"analytics.bi_push_url":      "BI_PUSH_URL",
	"analytics.workers":          "ANALYTICS_WORKERS",
	"analytics.queue_size":       "ANALYTICS_QUEUE_SIZE",
	"analytics.max_attempts":     "ANALYTICS_MAX_ATTEMPTS",
	"analytics.backoff":          "ANALYTICS_BACKOFF",
	"analytics.timeout":          "ANALYTICS_TIMEOUT",

	"authorization.retries": "AUTHORIZATION_RETRIES",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 10*time.Second)

	v.SetDefault("storage.driver", StorageMemory)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "ecommerce")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Minute*5)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("analytics.kafka_topic", "sales")
	v.SetDefault("analytics.amqp_exchange", "sales")
	v.SetDefault("analytics.amqp_routing_key", "sale.created")
	v.SetDefault("analytics.workers", 2)
	v.SetDefault("analytics.queue_size", 256)
	v.SetDefault("analytics.max_attempts", 3)
	v.SetDefault("analytics.backoff", 500*time.Millisecond)
	v.SetDefault("analytics.timeout", 5*time.Second)

	v.SetDefault("authorization.retries", 3)
}

// Load reads an optional .env file, lets the environment override it and
// fills in defaults for anything left unset.
func Load(path string) *Config {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, env := range envBindings {
		v.BindEnv(key, env)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	// .env entries are flat upper-case keys; they rank below real environment variables.
	for key, env := range envBindings {
		if fileKey := strings.ToLower(env); v.InConfig(fileKey) {
			v.SetDefault(key, v.Get(fileKey))
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("server.port"),
			ReadTimeout:    v.GetDuration("server.read_timeout"),
			WriteTimeout:   v.GetDuration("server.write_timeout"),
			IdleTimeout:    v.GetDuration("server.idle_timeout"),
			RequestTimeout: v.GetDuration("server.request_timeout"),
		},
		Storage: strings.ToLower(v.GetString("storage.driver")),
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetString("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("jwt.secret_key"),
		},
		Analytics: AnalyticsConfig{
			StreamDriver:   strings.ToLower(v.GetString("analytics.stream_driver")),
			KafkaBrokers:   splitList(v.GetString("analytics.kafka_brokers")),
			KafkaTopic:     v.GetString("analytics.kafka_topic"),
			AMQPURL:        v.GetString("analytics.amqp_url"),
			AMQPExchange:   v.GetString("analytics.amqp_exchange"),
			AMQPRoutingKey: v.GetString("analytics.amqp_routing_key"),
			BIPushURL:      v.GetString("analytics.bi_push_url"),
			Workers:        v.GetInt("analytics.workers"),
			QueueSize:      v.GetInt("analytics.queue_size"),
			MaxAttempts:    v.GetInt("analytics.max_attempts"),
			Backoff:        v.GetDuration("analytics.backoff"),
			Timeout:        v.GetDuration("analytics.timeout"),
		},
		AuthorizationRetries: v.GetInt("authorization.retries"),
	}
	cfg.Server.clampRequestTimeout()
	return cfg
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
