// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

const (
	ServiceName    = "coffee-maker-simulator"
	ServiceVersion = "0.1.0"
)

// Config holds configuration knobs for the HTTP server, the purchase event
// publisher and the optional external collaborators.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string

	InitialWorkerCount      int
	WorkerMin               int
	WorkerMax               int
	ScaleInterval           time.Duration
	ScaleUpBacklogPerWorker int
	ScaleDownIdleTicks      int
	QueueHighWatermark      int

	// RecipesFile seeds the recipe book when no saved state exists.
	RecipesFile string
	// StateDB is the SQLite path for machine state; empty keeps state in memory.
	StateDB string

	KafkaBroker string
	KafkaTopic  string

	OtelEndpoint   string
	OtelAuthHeader string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	minWorkers := atoienv("WORKER_MIN", 1)
	maxWorkers := atoienv("WORKER_MAX", 4)
	initialWorkers := atoienv("WORKER_COUNT", minWorkers)
	return Config{
		HTTPAddr:                getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout:         durenvs("SHUTDOWN_TIMEOUT", 15),
		LogLevel:                getenv("LOG_LEVEL", "info"),
		InitialWorkerCount:      initialWorkers,
		WorkerMin:               minWorkers,
		WorkerMax:               maxWorkers,
		ScaleInterval:           durenvms("SCALE_INTERVAL_MS", 500),
		ScaleUpBacklogPerWorker: atoienv("SCALE_UP_BACKLOG_PER_WORKER", 100),
		ScaleDownIdleTicks:      atoienv("SCALE_DOWN_IDLE_TICKS", 6),
		QueueHighWatermark:      atoienv("QUEUE_HIGH_WATERMARK", 5000),
		RecipesFile:             getenv("RECIPES_FILE", ""),
		StateDB:                 getenv("STATE_DB", ""),
		KafkaBroker:             getenv("KAFKA_BROKER", ""),
		KafkaTopic:              getenv("KAFKA_TOPIC", "CoffeePurchased"),
		OtelEndpoint:            getenv("OTEL_ENDPOINT", ""),
		OtelAuthHeader:          getenv("OTEL_AUTH_HEADER", ""),
	}
}
