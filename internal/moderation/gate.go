package moderation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/Manaswi925/ChimeIn/internal/models"
)

const ReasonRuleMatch = "rule match"

// Gate composes the rule matcher and the external scorer into a single
// accept/reject decision. Rules always run first.
type Gate struct {
	matcher *Matcher
	scorer  *Scorer
	logger  zerolog.Logger
}

func NewGate(rules []string, config *models.EnvConfig, logger zerolog.Logger) *Gate {
	return &Gate{
		matcher: NewMatcher(rules, logger),
		scorer:  NewScorer(config, logger),
		logger:  logger,
	}
}

// Matcher exposes the rule matcher for batch jobs that re-check persisted
// content against the rules alone.
func (g *Gate) Matcher() *Matcher {
	return g.matcher
}

// Evaluate checks the text against the rule list, then the scorer. On a rule
// match the scorer is never invoked.
func (g *Gate) Evaluate(ctx context.Context, text string) Verdict {
	if g.matcher.Matches(text) {
		return Verdict{Flagged: true, Reason: ReasonRuleMatch}
	}
	verdict := g.scorer.Score(ctx, text)
	if !verdict.Flagged && verdict.Details != nil {
		g.logger.Debug().
			Fields(map[string]interface{}{"scores": verdict.Details}).
			Msg("Content passed toxicity scoring")
	}
	return verdict
}
