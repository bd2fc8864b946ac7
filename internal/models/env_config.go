package models

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Attributes the external scorer is asked about. Each one can carry its own
// threshold; unlisted attributes fall back to DefaultThreshold.
var ScoredAttributes = []string{
	"TOXICITY",
	"SEXUALLY_EXPLICIT",
	"INSULT",
	"THREAT",
	"IDENTITY_ATTACK",
}

const DefaultThreshold = 0.9

type EnvConfig struct {
	DatabaseURL        string
	Port               string
	MediaDir           string
	RulesFile          string
	PerspectiveEnabled bool
	PerspectiveAPIKey  string
	PerspectiveURL     string
	PerspectiveTimeout time.Duration
	Thresholds         map[string]float64
	PendingTTL         time.Duration
	Debug              bool
}

func ReadEnvConfig() EnvConfig {
	debug := os.Getenv("CHIMEIN_DEBUG") == "true"
	port := os.Getenv("CHIMEIN_PORT")
	if port == "" {
		port = "8420"
	}
	mediaDir := os.Getenv("CHIMEIN_MEDIA_DIR")
	if mediaDir == "" {
		mediaDir = "media"
	}

	timeout := 5000 * time.Millisecond
	if ms, err := strconv.Atoi(os.Getenv("CHIMEIN_PERSPECTIVE_TIMEOUT_MS")); err == nil {
		timeout = time.Duration(ms) * time.Millisecond
	}
	ttl := time.Hour
	if m, err := strconv.Atoi(os.Getenv("CHIMEIN_PENDING_TTL_MINUTES")); err == nil {
		ttl = time.Duration(m) * time.Minute
	}

	apiKey := os.Getenv("CHIMEIN_PERSPECTIVE_API_KEY")
	// Both the flag and the key must be present, otherwise scoring stays off.
	enabled := os.Getenv("CHIMEIN_PERSPECTIVE_ENABLED") == "true" && apiKey != ""

	return EnvConfig{
		DatabaseURL:        os.Getenv("CHIMEIN_DATABASE_URL"),
		Port:               port,
		MediaDir:           mediaDir,
		RulesFile:          os.Getenv("CHIMEIN_RULES_FILE"),
		PerspectiveEnabled: enabled,
		PerspectiveAPIKey:  apiKey,
		PerspectiveURL:     os.Getenv("CHIMEIN_PERSPECTIVE_URL"),
		PerspectiveTimeout: timeout,
		Thresholds:         readThresholds(),
		PendingTTL:         ttl,
		Debug:              debug,
	}
}

// CHIMEIN_THRESHOLD_TOXICITY=0.85 style overrides.
func readThresholds() map[string]float64 {
	thresholds := map[string]float64{}
	for _, attr := range ScoredAttributes {
		v := os.Getenv("CHIMEIN_THRESHOLD_" + attr)
		if v == "" {
			continue
		}
		score, err := strconv.ParseFloat(v, 64)
		if err != nil || score < 0 || score > 1 {
			fmt.Printf("Ignoring bad threshold for %s: %q\n", attr, v)
			continue
		}
		thresholds[attr] = score
	}
	return thresholds
}
