package clarify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/statutelabs/statuted/internal/session"
)

// Config holds configuration for the Manager.
type Config struct {
	// DetectorTimeout bounds a single Detect call. The caller's context
	// deadline still applies; the shorter one wins. Default: 10s.
	DetectorTimeout time.Duration
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.DetectorTimeout == 0 {
		c.DetectorTimeout = 10 * time.Second
	}
}

// Manager orchestrates the clarification state machine.
//
// Per session there are two states, derived from the presence of a pending
// clarification: idle and awaiting-clarification. The session's own lock
// guards every state transition; it is never held across Detector or
// Answerer calls, so a slow collaborator cannot block other requests on
// the same session store.
type Manager struct {
	store    *session.Store
	detector Detector
	answerer Answerer
	logger   *zap.Logger
	metrics  *Metrics
	config   Config

	// now is a variable for testing purposes (allows mocking time).
	now func() time.Time
}

// NewManager creates a Manager. The detector may be nil, in which case
// every question is treated as unambiguous.
func NewManager(store *session.Store, detector Detector, answerer Answerer, logger *zap.Logger, cfg Config) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if answerer == nil {
		return nil, fmt.Errorf("answerer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ApplyDefaults()

	return &Manager{
		store:    store,
		detector: detector,
		answerer: answerer,
		logger:   logger,
		config:   cfg,
		now:      time.Now,
	}, nil
}

// SetMetrics attaches clarification metrics. Optional.
func (m *Manager) SetMetrics(metrics *Metrics) {
	m.metrics = metrics
}

// Resolve processes one inbound question for an optional session.
//
// An empty or unknown sessionID starts a fresh conversation; the new
// identifier is carried in the Resolution for the client's next turn.
// When the session holds an unexpired pending clarification, the input is
// treated as the clarification answer and merged into the original
// question; a blank or non-resolving answer repeats the same
// counter-question rather than failing. Otherwise the question runs
// through ambiguity detection and, if unambiguous, straight to the
// Answerer. A blank fresh question is the only input rejected outright.
func (m *Manager) Resolve(ctx context.Context, questionText, sessionID string) (*Resolution, error) {
	question := strings.TrimSpace(questionText)

	sess, ok := m.store.Get(sessionID)
	if !ok {
		if question == "" {
			return nil, ErrEmptyQuestion
		}
		sess = m.store.Create()
	}

	resolved := question

	sess.Lock()
	pending := sess.Pending
	if pending != nil && m.now().Sub(pending.AskedAt) > m.store.TTL() {
		// The session survived but the clarification went stale; the
		// input is a fresh question, not an answer to it.
		sess.Pending = nil
		pending = nil
		m.metrics.incExpired()
		m.logger.Debug("discarded stale pending clarification",
			zap.String("session_id", sess.ID),
		)
	}

	if pending == nil {
		sess.Unlock()
		if question == "" {
			return nil, ErrEmptyQuestion
		}
	} else {
		composed, err := Compose(pending.OriginalQuestion, question)
		if err != nil {
			// Non-resolving answer (blank or unusable): keep the pending
			// state and repeat the same counter-question.
			clarification := pending.ClarificationQuestion
			original := pending.OriginalQuestion
			sess.Unlock()

			m.metrics.incReask()
			m.metrics.recordOutcome("reask")
			m.logger.Debug("clarification answer did not resolve, re-asking",
				zap.String("session_id", sess.ID),
			)
			return &Resolution{
				SessionID:             sess.ID,
				RequiresClarification: true,
				ClarificationQuestion: clarification,
				PendingQuestion:       original,
			}, nil
		}

		sess.Pending = nil
		sess.Unlock()

		m.metrics.incMerged()
		m.logger.Info("clarification merged",
			zap.String("session_id", sess.ID),
			zap.String("resolved_question", composed),
		)
		resolved = composed
	}

	// Fresh-question flow. A just-composed question passes through here
	// too: if the merge is itself ambiguous, detection runs again rather
	// than guessing a recursive clarification protocol.
	verdict := m.detect(ctx, resolved)
	if verdict.Ambiguous {
		now := m.now()
		sess.Lock()
		sess.Pending = &session.PendingClarification{
			OriginalQuestion:      resolved,
			ClarificationQuestion: verdict.ClarificationQuestion,
			AskedAt:               now,
		}
		sess.Unlock()

		m.metrics.incRaised()
		m.metrics.recordOutcome("clarification")
		m.logger.Info("clarification raised",
			zap.String("session_id", sess.ID),
			zap.String("clarification_question", verdict.ClarificationQuestion),
		)
		return &Resolution{
			SessionID:             sess.ID,
			RequiresClarification: true,
			ClarificationQuestion: verdict.ClarificationQuestion,
			PendingQuestion:       resolved,
		}, nil
	}

	answer, err := m.answerer.Answer(ctx, resolved)
	if err != nil {
		m.metrics.recordOutcome("error")
		return nil, fmt.Errorf("answer engine: %w", err)
	}

	m.metrics.recordOutcome("answered")
	return &Resolution{
		SessionID:        sess.ID,
		ResolvedQuestion: resolved,
		Answer:           answer,
	}, nil
}

// detect runs the Detector with a bounded deadline and fails open.
func (m *Manager) detect(ctx context.Context, question string) Verdict {
	if m.detector == nil {
		return Unambiguous
	}

	dctx := ctx
	if m.config.DetectorTimeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, m.config.DetectorTimeout)
		defer cancel()
	}

	verdict, err := m.detector.Detect(dctx, question)
	if err != nil {
		// Fail-open: disambiguation is best-effort, answering is not.
		m.metrics.incFailOpen()
		m.logger.Warn("clarification detector failed, answering directly",
			zap.Error(err),
		)
		return Unambiguous
	}

	if verdict.Ambiguous && strings.TrimSpace(verdict.ClarificationQuestion) == "" {
		// An ambiguous verdict without a counter-question cannot be
		// acted on; treat it as unambiguous.
		return Unambiguous
	}

	return verdict
}
