package models

import (
	"os"
	"testing"
	"time"
)

func TestReadEnvConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"CHIMEIN_PORT",
		"CHIMEIN_PERSPECTIVE_ENABLED",
		"CHIMEIN_PERSPECTIVE_API_KEY",
		"CHIMEIN_PERSPECTIVE_TIMEOUT_MS",
		"CHIMEIN_PENDING_TTL_MINUTES",
		"CHIMEIN_THRESHOLD_TOXICITY",
	} {
		os.Unsetenv(key)
	}

	config := ReadEnvConfig()
	if config.Port != "8420" {
		t.Errorf("Default port = %q, want 8420", config.Port)
	}
	if config.PerspectiveTimeout != 5000*time.Millisecond {
		t.Errorf("Default timeout = %v, want 5s", config.PerspectiveTimeout)
	}
	if config.PendingTTL != time.Hour {
		t.Errorf("Default pending TTL = %v, want 1h", config.PendingTTL)
	}
	if config.PerspectiveEnabled {
		t.Error("Scoring must be disabled without flag and key")
	}
	if len(config.Thresholds) != 0 {
		t.Errorf("Expected no threshold overrides, got %v", config.Thresholds)
	}
}

func TestReadEnvConfigScoringNeedsFlagAndKey(t *testing.T) {
	defer os.Unsetenv("CHIMEIN_PERSPECTIVE_ENABLED")
	defer os.Unsetenv("CHIMEIN_PERSPECTIVE_API_KEY")

	os.Setenv("CHIMEIN_PERSPECTIVE_ENABLED", "true")
	os.Unsetenv("CHIMEIN_PERSPECTIVE_API_KEY")
	if ReadEnvConfig().PerspectiveEnabled {
		t.Error("Flag without key must not enable scoring")
	}

	os.Unsetenv("CHIMEIN_PERSPECTIVE_ENABLED")
	os.Setenv("CHIMEIN_PERSPECTIVE_API_KEY", "k")
	if ReadEnvConfig().PerspectiveEnabled {
		t.Error("Key without flag must not enable scoring")
	}

	os.Setenv("CHIMEIN_PERSPECTIVE_ENABLED", "true")
	if !ReadEnvConfig().PerspectiveEnabled {
		t.Error("Flag and key together must enable scoring")
	}
}

func TestReadEnvConfigThresholds(t *testing.T) {
	defer os.Unsetenv("CHIMEIN_THRESHOLD_TOXICITY")
	defer os.Unsetenv("CHIMEIN_THRESHOLD_INSULT")

	os.Setenv("CHIMEIN_THRESHOLD_TOXICITY", "0.85")
	os.Setenv("CHIMEIN_THRESHOLD_INSULT", "nonsense")

	thresholds := ReadEnvConfig().Thresholds
	if thresholds["TOXICITY"] != 0.85 {
		t.Errorf("TOXICITY threshold = %v, want 0.85", thresholds["TOXICITY"])
	}
	if _, ok := thresholds["INSULT"]; ok {
		t.Error("Unparseable threshold must be ignored")
	}
}
