package detector

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/statutelabs/statuted/internal/clarify"
	"github.com/statutelabs/statuted/internal/vectorstore"
)

// sectionRef matches a section reference like "section 17(5)".
var sectionRef = regexp.MustCompile(`(?i)\bsection\s+(\d+[0-9a-zA-Z()]*)`)

// namedAct matches an Act already identified in the question.
var namedAct = regexp.MustCompile(`(?i)\b(cgst|igst|utgst|central\s+gst|integrated\s+gst|union\s+territory\s+gst)\b`)

// HeuristicConfig holds configuration for the Heuristic detector.
type HeuristicConfig struct {
	// Collection is the corpus collection searched for candidates.
	// Empty uses the store's default collection.
	Collection string

	// TopK is how many candidate passages to retrieve. Default: 8.
	TopK int
}

// Heuristic flags questions whose section reference resolves to passages
// from more than one Act. It never calls a language model; candidate
// passages come straight from the vector store.
type Heuristic struct {
	store  vectorstore.Store
	config HeuristicConfig
	logger *zap.Logger
}

// NewHeuristic creates a Heuristic detector backed by the corpus store.
func NewHeuristic(store vectorstore.Store, cfg HeuristicConfig, logger *zap.Logger) (*Heuristic, error) {
	if store == nil {
		return nil, fmt.Errorf("vector store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 8
	}
	return &Heuristic{store: store, config: cfg, logger: logger}, nil
}

// Detect reports a question ambiguous when it references a section without
// naming an Act and the retrieved candidates span at least two Acts.
func (h *Heuristic) Detect(ctx context.Context, question string) (clarify.Verdict, error) {
	section := sectionRef.FindStringSubmatch(question)
	if section == nil {
		return clarify.Unambiguous, nil
	}
	if namedAct.MatchString(question) {
		// The question already says which Act it means.
		return clarify.Unambiguous, nil
	}

	results, err := h.search(ctx, question)
	if err != nil {
		return clarify.Unambiguous, fmt.Errorf("retrieving candidates: %w", err)
	}

	acts := distinctActs(results)
	if len(acts) < 2 {
		return clarify.Unambiguous, nil
	}

	h.logger.Debug("section reference spans multiple acts",
		zap.String("section", section[1]),
		zap.Strings("acts", acts),
	)

	return clarify.Verdict{
		Ambiguous: true,
		ClarificationQuestion: fmt.Sprintf(
			"Section %s exists in multiple GST Acts (%s). Which Act are you referring to?",
			section[1], strings.Join(acts, ", "),
		),
		Terms: acts,
	}, nil
}

func (h *Heuristic) search(ctx context.Context, question string) ([]vectorstore.SearchResult, error) {
	if h.config.Collection != "" {
		return h.store.SearchInCollection(ctx, h.config.Collection, question, h.config.TopK)
	}
	return h.store.Search(ctx, question, h.config.TopK)
}

// distinctActs collects the Acts the candidate passages belong to, sorted
// for deterministic clarification wording.
func distinctActs(results []vectorstore.SearchResult) []string {
	seen := make(map[string]bool)
	for _, r := range results {
		if act := r.Act(); act != "" {
			seen[act] = true
		}
	}
	acts := make([]string, 0, len(seen))
	for act := range seen {
		acts = append(acts, act)
	}
	sort.Strings(acts)
	return acts
}

// Ensure Heuristic implements clarify.Detector.
var _ clarify.Detector = (*Heuristic)(nil)
