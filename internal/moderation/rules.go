package moderation

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// A rule is one line of the rule list: either a literal matched as a
// case-insensitive substring, or /pattern/ matched as a case-insensitive
// regular expression.
type rule struct {
	literal string
	pattern *regexp.Regexp
}

type Matcher struct {
	rules  []rule
	logger zerolog.Logger
}

// NewMatcher compiles the rule list once. A pattern that fails to compile is
// logged and skipped, never fatal.
func NewMatcher(rules []string, logger zerolog.Logger) *Matcher {
	m := &Matcher{logger: logger}
	for _, r := range rules {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if strings.HasPrefix(r, "/") && strings.HasSuffix(r, "/") && len(r) > 1 {
			pat := r[1 : len(r)-1]
			if pat == "" {
				// An empty pattern would match every text
				logger.Warn().
					Str("rule", r).
					Msg("Skipping empty rule pattern")
				continue
			}
			re, err := regexp.Compile("(?i)" + pat)
			if err != nil {
				logger.Warn().
					Str("rule", r).
					Err(err).
					Msg("Skipping malformed rule pattern")
				continue
			}
			m.rules = append(m.rules, rule{pattern: re})
			continue
		}
		m.rules = append(m.rules, rule{literal: strings.ToLower(r)})
	}
	return m
}

// ReadRules parses a rule list, one rule per line. Blank lines and lines
// starting with # are ignored.
func ReadRules(r io.Reader) ([]string, error) {
	var rules []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}
	return rules, scanner.Err()
}

// Matches reports whether any rule matches the text. It stops at the first
// match. Empty text never matches.
func (m *Matcher) Matches(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, r := range m.rules {
		if r.pattern != nil {
			if r.pattern.MatchString(text) {
				return true
			}
			continue
		}
		if strings.Contains(lower, r.literal) {
			return true
		}
	}
	return false
}
