package moderation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/Manaswi925/ChimeIn/internal/models"
)

func scorerConfig(url string) *models.EnvConfig {
	return &models.EnvConfig{
		PerspectiveEnabled: true,
		PerspectiveAPIKey:  "test-key",
		PerspectiveURL:     url,
		PerspectiveTimeout: 2 * time.Second,
		Thresholds:         map[string]float64{"TOXICITY": 0.85},
	}
}

func fakeAnalyzer(t *testing.T, scores map[string]float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("Expected api key in query, got %q", r.URL.Query().Get("key"))
		}
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		if req.Comment.Text == "" {
			t.Error("Expected comment text in request")
		}
		if _, ok := req.RequestedAttributes["TOXICITY"]; !ok {
			t.Error("Expected TOXICITY in requested attributes")
		}

		resp := analyzeResponse{}
		resp.AttributeScores = map[string]struct {
			SummaryScore struct {
				Value float64 `json:"value"`
			} `json:"summaryScore"`
		}{}
		for attr, score := range scores {
			v := resp.AttributeScores[attr]
			v.SummaryScore.Value = score
			resp.AttributeScores[attr] = v
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestScoreFlagsThresholdBreach(t *testing.T) {
	server := httptest.NewServer(fakeAnalyzer(t, map[string]float64{
		"TOXICITY": 0.90,
		"INSULT":   0.20,
	}))
	defer server.Close()

	s := NewScorer(scorerConfig(server.URL), zerolog.Nop())
	verdict := s.Score(context.Background(), "you are horrible")
	if !verdict.Flagged {
		t.Fatal("Expected flagged verdict")
	}
	if !strings.Contains(verdict.Reason, "TOXICITY") || !strings.Contains(verdict.Reason, "0.90") {
		t.Errorf("Reason should name attribute and score, got %q", verdict.Reason)
	}
	if !strings.Contains(verdict.Reason, "0.85") {
		t.Errorf("Reason should name the threshold, got %q", verdict.Reason)
	}
}

func TestScoreBelowThresholds(t *testing.T) {
	server := httptest.NewServer(fakeAnalyzer(t, map[string]float64{
		"TOXICITY": 0.50,
		"THREAT":   0.10,
	}))
	defer server.Close()

	s := NewScorer(scorerConfig(server.URL), zerolog.Nop())
	verdict := s.Score(context.Background(), "have a nice day")
	if verdict.Flagged {
		t.Fatalf("Expected clean verdict, got flagged: %s", verdict.Reason)
	}
	// The raw scores stay attached for audit logging.
	if verdict.Details["TOXICITY"] != 0.50 {
		t.Errorf("Expected details to carry raw scores, got %v", verdict.Details)
	}
}

func TestScoreDefaultThreshold(t *testing.T) {
	// INSULT has no configured threshold, so 0.9 applies.
	server := httptest.NewServer(fakeAnalyzer(t, map[string]float64{
		"INSULT": 0.95,
	}))
	defer server.Close()

	s := NewScorer(scorerConfig(server.URL), zerolog.Nop())
	verdict := s.Score(context.Background(), "text")
	if !verdict.Flagged || !strings.Contains(verdict.Reason, "INSULT") {
		t.Errorf("Expected INSULT flag at default threshold, got %+v", verdict)
	}
}

func TestScoreFailsOpen(t *testing.T) {
	entries := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "malformed response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("{not json"))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
			},
		},
	}
	for _, e := range entries {
		server := httptest.NewServer(e.handler)
		config := scorerConfig(server.URL)
		if e.name == "timeout" {
			config.PerspectiveTimeout = 20 * time.Millisecond
		}
		s := NewScorer(config, zerolog.Nop())
		verdict := s.Score(context.Background(), "anything")
		if verdict.Flagged {
			t.Errorf("%s: scorer failure must fail open, got flagged", e.name)
		}
		server.Close()
	}
}

func TestScoreDisabled(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	config := scorerConfig(server.URL)
	config.PerspectiveEnabled = false
	s := NewScorer(config, zerolog.Nop())
	if s.Score(context.Background(), "anything").Flagged {
		t.Error("Disabled scorer must not flag")
	}

	config = scorerConfig(server.URL)
	s = NewScorer(config, zerolog.Nop())
	if s.Score(context.Background(), "").Flagged {
		t.Error("Empty text must not flag")
	}
	if calls != 0 {
		t.Errorf("Expected no calls to the service, got %d", calls)
	}
}
