package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanResponse_ActClarification(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{
			name:     "multiple acts statement with question",
			response: "Section 17(5) exists in multiple GST Acts (CGST, IGST). Which Act are you referring to?",
		},
		{
			name:     "which act question alone",
			response: "I found several matches. Which Act are you referring to?",
		},
		{
			name:     "which gst act phrasing",
			response: "To answer precisely, which GST Act do you mean?",
		},
		{
			name:     "please specify act",
			response: "Please specify which Act applies to your case.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, found := ScanResponse(tt.response)
			require.True(t, found)
			assert.Equal(t, "act_clarification", match.Kind)
			assert.NotEmpty(t, match.Question)
		})
	}
}

func TestScanResponse_GeneralClarification(t *testing.T) {
	match, found := ScanResponse("Your question covers several topics. Could you clarify what you are asking about?")
	require.True(t, found)
	assert.Equal(t, "general_clarification", match.Kind)
	assert.Contains(t, match.Question, "Could you clarify")
}

func TestScanResponse_WhichOneQuestion(t *testing.T) {
	match, found := ScanResponse("There are two registration routes. Which one applies to you?")
	require.True(t, found)
	assert.Equal(t, "general_clarification", match.Kind)
	assert.Contains(t, match.Question, "Which one applies to you?")
}

func TestScanResponse_NoClarification(t *testing.T) {
	responses := []string{
		"",
		"Section 16 of the CGST Act entitles a registered person to input tax credit.",
		"The rate is 18% as per notification 11/2017.",
	}
	for _, response := range responses {
		_, found := ScanResponse(response)
		assert.False(t, found, "response: %q", response)
	}
}

func TestScanResponse_QuestionIncludesContext(t *testing.T) {
	response := "Section 10 appears in both the CGST Act and the IGST Act. Which Act are you referring to?"
	match, found := ScanResponse(response)
	require.True(t, found)

	// The short counter-question pulls in the preceding sentence that
	// explains the ambiguity.
	assert.Contains(t, match.Question, "Section 10 appears in both")
	assert.Contains(t, match.Question, "Which Act are you referring to?")
}

func TestExtractQuestion_Boundaries(t *testing.T) {
	assert.Equal(t, 0, lastBoundary("no terminator here", 10))
	assert.Equal(t, 5, lastBoundary("ends. and then", 10))

	assert.Equal(t, len("no terminator"), nextBoundary("no terminator", 0))
	assert.Equal(t, 5, nextBoundary("ends. and then", 0))
}
