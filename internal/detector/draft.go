package detector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/statutelabs/statuted/internal/clarify"
)

// Draft detects ambiguity by answering the question once and scanning the
// draft for clarification phrasing. A model that is prompted to ask for
// the Act when a section is ambiguous produces "Which Act are you
// referring to?" in its output; ScanResponse picks that up.
//
// This costs one extra generation per fresh question, so it is the
// accurate-but-slower alternative to the Heuristic detector.
type Draft struct {
	answerer clarify.Answerer
	logger   *zap.Logger
}

// NewDraft creates a Draft detector over the regular answering path.
func NewDraft(answerer clarify.Answerer, logger *zap.Logger) (*Draft, error) {
	if answerer == nil {
		return nil, fmt.Errorf("answerer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Draft{answerer: answerer, logger: logger}, nil
}

// Detect generates a draft answer and reports ambiguity when the draft
// itself asks a clarification question.
func (d *Draft) Detect(ctx context.Context, question string) (clarify.Verdict, error) {
	draft, err := d.answerer.Answer(ctx, question)
	if err != nil {
		return clarify.Unambiguous, fmt.Errorf("drafting answer: %w", err)
	}

	match, found := ScanResponse(draft.Text)
	if !found {
		return clarify.Unambiguous, nil
	}

	d.logger.Debug("draft answer asked for clarification",
		zap.String("kind", match.Kind),
	)

	return clarify.Verdict{
		Ambiguous:             true,
		ClarificationQuestion: match.Question,
	}, nil
}

// Ensure Draft implements clarify.Detector.
var _ clarify.Detector = (*Draft)(nil)
