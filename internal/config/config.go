// Package config provides configuration structures and validation for the engine.
// Settings come from defaults, an optional .env file and the environment, and
// cover the HTTP surface, the key-value backend and the optional change feed.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store backends selectable with STORE_BACKEND
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config holds the complete application configuration.
// Backend sections are only validated when that backend is selected.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Store       StoreConfig
	Redis       RedisConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	ChangeFeed  ChangeFeedConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Zero disables the limit, needed for long-lived change streams
	IdleTimeout     time.Duration // Maximum duration to wait for next request
	StreamHeartbeat time.Duration // Interval between heartbeats on idle change streams
}

// StoreConfig selects where collections are persisted
type StoreConfig struct {
	Backend   string
	KeyPrefix string // Prepended to every collection key
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Minimum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Collection      string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig contains Kafka configuration for the change feed
type KafkaConfig struct {
	Brokers           string
	ChangeTopic       string
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	WriteTimeout      time.Duration
}

// ChangeFeedConfig toggles relaying collection changes to Kafka
type ChangeFeedConfig struct {
	Enabled bool
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// validate performs validation of all configuration values, collecting every
// problem into one error
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout < 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must not be negative")
	}
	if c.Server.StreamHeartbeat <= 0 {
		validationErrors = append(validationErrors, "SERVER_STREAM_HEARTBEAT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		validationErrors = append(validationErrors, c.Redis.validate()...)
	case BackendPostgres:
		validationErrors = append(validationErrors, c.Postgres.validate()...)
	case BackendMongo:
		validationErrors = append(validationErrors, c.MongoDB.validate()...)
	default:
		validationErrors = append(validationErrors, fmt.Sprintf(
			"STORE_BACKEND must be one of %s, %s, %s, %s",
			BackendMemory, BackendRedis, BackendPostgres, BackendMongo,
		))
	}

	if c.ChangeFeed.Enabled {
		if c.Kafka.Brokers == "" {
			validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
		}
		if c.Kafka.ChangeTopic == "" {
			validationErrors = append(validationErrors, "KAFKA_CHANGE_TOPIC is required")
		}
		if c.Kafka.WriteTimeout <= 0 {
			validationErrors = append(validationErrors, "KAFKA_WRITE_TIMEOUT must be greater than 0")
		}
		if c.WorkerPool.Size <= 0 {
			validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
		}
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}

func (c RedisConfig) validate() []string {
	var errs []string
	if c.Addr == "" {
		errs = append(errs, "REDIS_ADDR is required")
	}
	if c.DB < 0 {
		errs = append(errs, "REDIS_DB must not be negative")
	}
	if c.PoolSize <= 0 {
		errs = append(errs, "REDIS_POOL_SIZE must be greater than 0")
	}
	return errs
}

func (c PostgresConfig) validate() []string {
	var errs []string
	if c.URL == "" {
		errs = append(errs, "POSTGRES_URL is required")
	}
	if c.MaxConns <= 0 {
		errs = append(errs, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.MinConns <= 0 {
		errs = append(errs, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.ConnMaxLifetime <= 0 {
		errs = append(errs, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.ConnMaxIdleTime <= 0 {
		errs = append(errs, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}
	if c.MigrationsPath == "" {
		errs = append(errs, "POSTGRES_MIGRATIONS_PATH is required")
	}
	return errs
}

func (c MongoDBConfig) validate() []string {
	var errs []string
	if c.URI == "" {
		errs = append(errs, "MONGO_URI is required")
	}
	if c.Database == "" {
		errs = append(errs, "MONGO_DATABASE is required")
	}
	if c.Collection == "" {
		errs = append(errs, "MONGO_COLLECTION is required")
	}
	if c.Timeout <= 0 {
		errs = append(errs, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MaxPoolSize <= 0 {
		errs = append(errs, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MaxConnIdleTime <= 0 {
		errs = append(errs, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}
	return errs
}
