package detector

import (
	"regexp"
	"strings"
)

// Clarification phrasing in model output, in priority order: Act-specific
// requests first, then general requests, then bare indicator sentences.
var (
	actClarificationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)section\s+\d+\S*\s+exists\s+in\s+multiple\s+gst\s+acts[^?]*\?`),
		regexp.MustCompile(`(?i)which\s+act\s+(?:are\s+you\s+)?referring\s+to\??`),
		regexp.MustCompile(`(?i)which\s+gst\s+act[^?]*\??`),
		regexp.MustCompile(`(?i)please\s+specify\s+(?:which\s+)?(?:act|gst\s+act)[^?]*\??`),
	}

	generalClarificationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)please\s+clarify[^?]*\??`),
		regexp.MustCompile(`(?i)could\s+you\s+(?:please\s+)?(?:clarify|specify)[^?]*\??`),
		regexp.MustCompile(`(?i)would\s+you\s+(?:please\s+)?(?:clarify|specify)[^?]*\??`),
		regexp.MustCompile(`(?i)i\s+need\s+(?:more\s+)?(?:information|clarification)[^?]*\??`),
		regexp.MustCompile(`(?i)which\s+(?:one|option|act|version)[^?]*\??`),
	}

	clarificationIndicators = []string{
		"which act",
		"which gst act",
		"please clarify",
		"could you specify",
		"which one",
	}

	contextKeywords = []string{"section", "act", "gst", "cgst", "igst", "utgst"}

	sentenceSplit = regexp.MustCompile(`[.!?]\s+`)
)

// Match is a clarification question found in model output.
type Match struct {
	// Question is the extracted counter-question, with surrounding
	// explanatory context where available.
	Question string

	// Kind records which pattern group matched
	// (act_clarification, general_clarification, indicator_based).
	Kind string
}

// ScanResponse reports whether a model response contains a clarification
// question, extracting it with enough context to stand alone.
func ScanResponse(response string) (Match, bool) {
	if response == "" {
		return Match{}, false
	}

	for _, pattern := range actClarificationPatterns {
		if loc := pattern.FindStringIndex(response); loc != nil {
			return Match{
				Question: extractQuestion(response, loc[0], loc[1]),
				Kind:     "act_clarification",
			}, true
		}
	}

	for _, pattern := range generalClarificationPatterns {
		if loc := pattern.FindStringIndex(response); loc != nil {
			return Match{
				Question: extractQuestion(response, loc[0], loc[1]),
				Kind:     "general_clarification",
			}, true
		}
	}

	// Sentences ending in "?" that carry a clarification indicator.
	for _, sentence := range sentenceSplit.Split(response, -1) {
		trimmed := strings.TrimSpace(sentence)
		lower := strings.ToLower(trimmed)
		if !strings.HasSuffix(lower, "?") {
			continue
		}
		for _, indicator := range clarificationIndicators {
			if strings.Contains(lower, indicator) {
				return Match{Question: trimmed, Kind: "indicator_based"}, true
			}
		}
	}

	return Match{}, false
}

// extractQuestion widens a pattern match to sentence boundaries and pulls
// in a preceding context sentence when it explains the ambiguity
// (e.g. "Section 17(5) exists in multiple Acts...").
func extractQuestion(response string, start, end int) string {
	sentenceStart := lastBoundary(response, start)
	sentenceEnd := nextBoundary(response, end)

	question := strings.TrimSpace(response[sentenceStart:sentenceEnd])

	if !strings.HasSuffix(question, "?") {
		if next := strings.Index(response[sentenceEnd:], "?"); next != -1 {
			question = strings.TrimSpace(response[sentenceStart : sentenceEnd+next+1])
		}
	}

	// Short questions often lean on the previous sentence for context.
	if len(question) < 100 && sentenceStart > 0 {
		prevStart := lastBoundary(response, sentenceStart-1)
		prev := strings.TrimSpace(response[prevStart:sentenceStart])
		lower := strings.ToLower(prev)
		for _, keyword := range contextKeywords {
			if strings.Contains(lower, keyword) {
				question = prev + " " + question
				break
			}
		}
	}

	if question == "" {
		return response[start:end]
	}
	return question
}

// lastBoundary returns the index just past the sentence terminator
// preceding pos, or 0.
func lastBoundary(s string, pos int) int {
	best := -1
	for _, term := range []string{".", "!", "?"} {
		if idx := strings.LastIndex(s[:pos], term); idx > best {
			best = idx
		}
	}
	if best == -1 {
		return 0
	}
	return best + 1
}

// nextBoundary returns the index just past the next sentence terminator at
// or after pos, or len(s).
func nextBoundary(s string, pos int) int {
	best := len(s)
	for _, term := range []string{".", "!", "?"} {
		if idx := strings.Index(s[pos:], term); idx != -1 {
			if end := pos + idx + 1; end < best {
				best = end
			}
		}
	}
	return best
}
