// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"netpulse/internal/config"
	"netpulse/internal/registry"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	_ = godotenv.Load()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		fail("config invalid: " + err.Error())
	}
	ok("config valid")

	targets, err := registry.Load(cfg.TargetsFile)
	if err != nil {
		fail("targets: " + err.Error())
	}
	ok(fmt.Sprintf("%s lists %d targets", cfg.TargetsFile, len(targets)))

	if cfg.SlackWebhook == "" {
		warn("SLACK_WEBHOOK_URL empty — transition alerts disabled.")
	}
	if len(cfg.TriggerAPIKeys) == 0 {
		warn("TRIGGER_API_KEYS empty — /api/trigger is open (dev mode).")
	}
	if cfg.ProbeTimeout <= cfg.SlowThreshold {
		warn("PROBE_TIMEOUT_MS is at or below SLOW_THRESHOLD_MS; slow targets will read as timeouts.")
	}

	ok("preflight passed")
}
