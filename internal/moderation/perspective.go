package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/Manaswi925/ChimeIn/internal/models"
)

const defaultPerspectiveURL = "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"

// Verdict is the outcome of a moderation check. It is produced fresh per
// check and never persisted.
type Verdict struct {
	Flagged bool
	Reason  string
	Details map[string]float64
}

// Scorer asks an external Perspective-style service for attribute scores and
// compares them against configured thresholds. Every failure mode of the
// external call degrades to a non-flagged verdict: the scorer must never be
// the reason content creation goes down.
type Scorer struct {
	enabled    bool
	apiKey     string
	url        string
	timeout    time.Duration
	thresholds map[string]float64
	client     *http.Client
	logger     zerolog.Logger
}

func NewScorer(config *models.EnvConfig, logger zerolog.Logger) *Scorer {
	url := config.PerspectiveURL
	if url == "" {
		url = defaultPerspectiveURL
	}
	timeout := config.PerspectiveTimeout
	if timeout <= 0 {
		timeout = 5000 * time.Millisecond
	}
	return &Scorer{
		enabled:    config.PerspectiveEnabled,
		apiKey:     config.PerspectiveAPIKey,
		url:        url,
		timeout:    timeout,
		thresholds: config.Thresholds,
		client:     &http.Client{},
		logger:     logger,
	}
}

type analyzeRequest struct {
	Comment struct {
		Text string `json:"text"`
	} `json:"comment"`
	Languages           []string            `json:"languages"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// Score submits the text for multi-attribute scoring. The first attribute
// breaching its threshold flags the verdict; otherwise the full score map is
// attached for audit logging.
func (s *Scorer) Score(ctx context.Context, text string) Verdict {
	if !s.enabled || text == "" {
		return Verdict{}
	}

	scores, err := s.analyze(ctx, text)
	if err != nil {
		// Fail open: a broken scorer must not block content.
		s.logger.Warn().Err(err).Msg("Toxicity scoring unavailable")
		return Verdict{}
	}

	for _, attr := range models.ScoredAttributes {
		score, ok := scores[attr]
		if !ok {
			continue
		}
		threshold := models.DefaultThreshold
		if t, ok := s.thresholds[attr]; ok {
			threshold = t
		}
		if score >= threshold {
			return Verdict{
				Flagged: true,
				Reason:  fmt.Sprintf("%s score %.2f exceeds threshold %.2f", attr, score, threshold),
				Details: scores,
			}
		}
	}
	return Verdict{Details: scores}
}

func (s *Scorer) analyze(ctx context.Context, text string) (map[string]float64, error) {
	reqBody := analyzeRequest{
		Languages:           []string{"en"},
		RequestedAttributes: map[string]struct{}{},
	}
	reqBody.Comment.Text = text
	for _, attr := range models.ScoredAttributes {
		reqBody.RequestedAttributes[attr] = struct{}{}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+"?key="+s.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scorer returned status %d", res.StatusCode)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("malformed scorer response: %w", err)
	}
	scores := map[string]float64{}
	for attr, v := range parsed.AttributeScores {
		scores[attr] = v.SummaryScore.Value
	}
	return scores, nil
}
