package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Config struct {
	Addr        string // API bind address, e.g. "127.0.0.1:8080"
	LogDir      string // logs directory
	LogLevel    string // debug|info|warn|error
	TargetsFile string // YAML target registry, read once at startup

	RefreshInterval time.Duration // delay between probe cycles
	JitterMax       time.Duration // random extra delay added per firing
	ProbeTimeout    time.Duration // budget for one probe, both phases
	SlowThreshold   time.Duration // round trips above this classify slow
	Concurrency     int           // probes in flight per cycle, hard cap

	SlackWebhook string // empty disables transition alerts

	// Manual-trigger route hardening.
	TriggerAPIKeys []string
	TriggerRPM     int
	TriggerBurst   int
}

func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	targetsFile := os.Getenv("TARGETS_FILE")
	if targetsFile == "" {
		targetsFile = "targets.yaml"
	}

	return Config{
		Addr:        addr,
		LogDir:      logDir,
		LogLevel:    logLevel,
		TargetsFile: targetsFile,

		RefreshInterval: envMillis("REFRESH_INTERVAL_MS", 60_000),
		JitterMax:       envMillis("JITTER_MAX_MS", 2_000),
		ProbeTimeout:    envMillis("PROBE_TIMEOUT_MS", 8_000),
		SlowThreshold:   envMillis("SLOW_THRESHOLD_MS", 1_200),
		Concurrency:     envInt("PROBE_CONCURRENCY", 4),

		SlackWebhook: os.Getenv("SLACK_WEBHOOK_URL"),

		TriggerAPIKeys: envList("TRIGGER_API_KEYS"),
		TriggerRPM:     envInt("TRIGGER_RPM", 30),
		TriggerBurst:   envInt("TRIGGER_BURST", 5),
	}
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
		validation.Field(&c.TargetsFile, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Concurrency, validation.Min(1)),
		validation.Field(&c.ProbeTimeout, validation.Min(time.Millisecond)),
		validation.Field(&c.SlowThreshold, validation.Min(time.Millisecond)),
		validation.Field(&c.RefreshInterval, validation.Min(time.Duration(0))),
		validation.Field(&c.JitterMax, validation.Min(time.Duration(0))),
	)
}

func envMillis(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(def) * time.Millisecond
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envList(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
