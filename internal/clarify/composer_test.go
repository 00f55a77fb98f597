package clarify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name     string
		original string
		answer   string
		want     string
	}{
		{
			name:     "append act to bare section question",
			original: "What is section 17(5)?",
			answer:   "CGST Act",
			want:     "What is section 17(5)? (CGST Act)",
		},
		{
			name:     "substitute act already named",
			original: "What does section 16 of the IGST Act say?",
			answer:   "CGST",
			want:     "What does section 16 of the CGST Act say?",
		},
		{
			name:     "substitute bare act token without the word act",
			original: "Under CGST, what is section 16?",
			answer:   "IGST",
			want:     "Under IGST Act, what is section 16?",
		},
		{
			name:     "substitute generic gst act phrasing",
			original: "Explain section 10 of the GST Act",
			answer:   "the IGST Act please",
			want:     "Explain section 10 of IGST Act",
		},
		{
			name:     "full act name in answer",
			original: "What is section 7?",
			answer:   "I mean the Integrated GST one",
			want:     "What is section 7? (IGST Act)",
		},
		{
			name:     "union territory act",
			original: "What is section 21?",
			answer:   "union territory gst",
			want:     "What is section 21? (UTGST Act)",
		},
		{
			name:     "short non-act answer appended with dash",
			original: "What is the penalty?",
			answer:   "for late filing",
			want:     "What is the penalty? - for late filing",
		},
		{
			name:     "long non-act answer appended as clarification block",
			original: "What is the penalty?",
			answer:   "I am asking about delayed GSTR-3B returns filed more than thirty days late",
			want:     "What is the penalty?\n\nUser clarification: I am asking about delayed GSTR-3B returns filed more than thirty days late",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compose(tt.original, tt.answer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompose_EmptyAnswer(t *testing.T) {
	_, err := Compose("What is section 17(5)?", "")
	assert.ErrorIs(t, err, ErrNoResolution)

	_, err = Compose("What is section 17(5)?", "   \t\n")
	assert.ErrorIs(t, err, ErrNoResolution)
}

func TestCompose_Deterministic(t *testing.T) {
	first, err := Compose("What is section 9?", "cgst act")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := Compose("What is section 9?", "cgst act")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestActFromAnswer(t *testing.T) {
	tests := []struct {
		answer string
		want   string
	}{
		{"CGST Act", "CGST Act"},
		{"cgst", "CGST Act"},
		{"the IGST Act", "IGST Act"},
		{"utgst please", "UTGST Act"},
		{"Central GST", "CGST Act"},
		{"integrated gst act", "IGST Act"},
		{"union territory gst", "UTGST Act"},
		{"about late fees", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, actFromAnswer(tt.answer))
		})
	}
}
