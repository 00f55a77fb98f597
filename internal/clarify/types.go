package clarify

import (
	"context"
	"errors"
)

// Sentinel errors.
var (
	// ErrEmptyQuestion indicates a blank inbound question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrNoResolution indicates the clarification answer could not be
	// merged into the original question.
	ErrNoResolution = errors.New("clarification answer does not resolve the question")
)

// Verdict is the Detector's judgement on a question.
type Verdict struct {
	// Ambiguous reports whether the question needs disambiguation.
	Ambiguous bool

	// ClarificationQuestion is the counter-question to show the user.
	// Set only when Ambiguous is true.
	ClarificationQuestion string

	// Terms are the disambiguating candidates, when known
	// (e.g. the Acts a bare section number was found in).
	Terms []string
}

// Unambiguous is the zero Verdict, used on the fail-open path.
var Unambiguous = Verdict{}

// Detector classifies questions as ambiguous or not.
//
// Implementations may consult retrieved passages or a language model; the
// Manager only branches on the verdict. Detect must respect the context
// deadline.
type Detector interface {
	Detect(ctx context.Context, question string) (Verdict, error)
}

// Answer is the Answerer's response to a resolved question.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources maps source document names to the number of passages each
	// contributed.
	Sources map[string]int
}

// Answerer produces an answer for a fully resolved question.
type Answerer interface {
	Answer(ctx context.Context, question string) (*Answer, error)
}

// Resolution is the outcome of one Resolve call.
//
// Exactly one of the two shapes is populated: a direct answer
// (RequiresClarification false, Answer set) or a clarification reply
// (RequiresClarification true, ClarificationQuestion and PendingQuestion set).
type Resolution struct {
	// SessionID identifies the conversation; clients echo it on the next
	// turn. Always non-empty.
	SessionID string

	// RequiresClarification reports whether the caller must answer a
	// counter-question before an answer can be produced.
	RequiresClarification bool

	// ClarificationQuestion is the counter-question, when required.
	ClarificationQuestion string

	// PendingQuestion is the original question held until the
	// clarification is answered.
	PendingQuestion string

	// ResolvedQuestion is the question actually sent to the Answerer.
	ResolvedQuestion string

	// Answer is the generated answer for direct resolutions.
	Answer *Answer
}
