package intent

import (
	"context"
	"regexp"
)

type keywordRule struct {
	intent  string
	pattern *regexp.Regexp
}

// KeywordRecognizer maps a few fixed phrases to intents. First match wins.
type KeywordRecognizer struct {
	rules []keywordRule
}

// NewKeywordRecognizer returns the recognizer used when no prediction
// service is configured.
func NewKeywordRecognizer() *KeywordRecognizer {
	return &KeywordRecognizer{rules: []keywordRule{
		{intent: "getBloodPressure", pattern: regexp.MustCompile(`(?i)\b(blood\s+pressure|bp)\b`)},
		{intent: "getWeight", pattern: regexp.MustCompile(`(?i)\b(weight|weigh|weighs|heavy)\b`)},
		{intent: "getHeight", pattern: regexp.MustCompile(`(?i)\b(height|tall)\b`)},
	}}
}

// Recognize never fails.
func (k *KeywordRecognizer) Recognize(_ context.Context, text string) (string, error) {
	for _, r := range k.rules {
		if r.pattern.MatchString(text) {
			return r.intent, nil
		}
	}
	return None, nil
}
