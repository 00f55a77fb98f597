package clarify

import (
	"fmt"
	"regexp"
	"strings"
)

// shortAnswerLimit separates bare disambiguating answers ("CGST Act") from
// free-form clarification text that is appended verbatim.
const shortAnswerLimit = 50

// actMention matches an Act already named in the original question, with
// or without the word "Act" ("section 16 of the IGST Act", "under CGST").
var actMention = regexp.MustCompile(`(?i)\b(cgst|igst|utgst|central\s+gst|integrated\s+gst|union\s+territory\s+gst)\b(?:\s+act\b)?`)

// genericActPhrase matches the unspecific "of (the) GST Act" phrasing.
var genericActPhrase = regexp.MustCompile(`(?i)\bof\s+(?:the\s+)?gst\s+act\b`)

// actFromAnswer extracts a canonical Act name from a clarification answer.
// Returns "" when the answer names no known Act.
func actFromAnswer(answer string) string {
	lower := strings.ToLower(answer)
	switch {
	case strings.Contains(lower, "cgst"):
		return "CGST Act"
	case strings.Contains(lower, "igst"):
		return "IGST Act"
	case strings.Contains(lower, "utgst"):
		return "UTGST Act"
	case strings.Contains(lower, "central") && strings.Contains(lower, "gst"):
		return "CGST Act"
	case strings.Contains(lower, "integrated") && strings.Contains(lower, "gst"):
		return "IGST Act"
	case strings.Contains(lower, "union") && strings.Contains(lower, "gst"):
		return "UTGST Act"
	}
	return ""
}

// Compose merges an original ambiguous question with the user's
// clarification answer into one resolved question.
//
// Compose is pure: identical inputs always yield identical output. The
// merge is a substitution when the original already names an Act or uses
// the generic "of the GST Act" phrasing, and an append otherwise. An empty
// clarification answer yields ErrNoResolution so the caller can re-ask
// instead of forwarding a malformed question.
func Compose(original, clarificationAnswer string) (string, error) {
	answer := strings.TrimSpace(clarificationAnswer)
	if answer == "" {
		return "", ErrNoResolution
	}

	if act := actFromAnswer(answer); act != "" {
		if actMention.MatchString(original) {
			// Replace the Act the question already names.
			return actMention.ReplaceAllString(original, act), nil
		}
		if genericActPhrase.MatchString(original) {
			return genericActPhrase.ReplaceAllString(original, "of "+act), nil
		}
		return fmt.Sprintf("%s (%s)", original, act), nil
	}

	// No recognizable Act: incorporate the answer verbatim.
	if len(answer) < shortAnswerLimit {
		return fmt.Sprintf("%s - %s", original, answer), nil
	}
	return fmt.Sprintf("%s\n\nUser clarification: %s", original, answer), nil
}
