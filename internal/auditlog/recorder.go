package auditlog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultSubject is the NATS subject query records are published on.
const DefaultSubject = "statuted.queries"

// Record is one resolved query, as published for offline review.
type Record struct {
	SessionID             string    `json:"session_id"`
	Question              string    `json:"question"`
	ResolvedQuestion      string    `json:"resolved_question,omitempty"`
	Outcome               string    `json:"outcome"`
	ClarificationQuestion string    `json:"clarification_question,omitempty"`
	AnswerLength          int       `json:"answer_length,omitempty"`
	Sources               []string  `json:"sources,omitempty"`
	Timestamp             time.Time `json:"timestamp"`
}

// Recorder accepts query records. Implementations must not block the
// serving path.
type Recorder interface {
	Record(rec Record)
	Close()
}

// Config holds configuration for the NATS recorder.
type Config struct {
	// URL is the NATS server address.
	URL string `koanf:"url"`

	// Subject overrides DefaultSubject when set.
	Subject string `koanf:"subject"`

	// Enabled toggles audit publishing. Disabled yields a Nop recorder.
	Enabled bool `koanf:"enabled"`
}

// ApplyDefaults fills zero values with sane defaults.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = nats.DefaultURL
	}
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}
}

// NATSRecorder publishes records to a NATS subject.
type NATSRecorder struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
	now     func() time.Time
}

// NewNATSRecorder connects to NATS and returns a recorder. The connection
// retries in the background, so a broker that is briefly down at startup
// does not prevent the daemon from serving.
func NewNATSRecorder(cfg Config, logger *zap.Logger) (*NATSRecorder, error) {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := nats.Connect(cfg.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(1*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", cfg.URL, err)
	}

	logger.Info("audit log connected", zap.String("url", cfg.URL), zap.String("subject", cfg.Subject))

	return &NATSRecorder{
		conn:    conn,
		subject: cfg.Subject,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// NewNATSRecorderWithConn wraps an existing connection, used by tests and
// by callers sharing a connection.
func NewNATSRecorderWithConn(conn *nats.Conn, subject string, logger *zap.Logger) *NATSRecorder {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NATSRecorder{conn: conn, subject: subject, logger: logger, now: time.Now}
}

// Record publishes one query record. Failures are logged and swallowed;
// audit loss must never surface to the caller.
func (r *NATSRecorder) Record(rec Record) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = r.now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		r.logger.Warn("marshal audit record", zap.Error(err))
		return
	}

	if err := r.conn.Publish(r.subject, data); err != nil {
		r.logger.Warn("publish audit record",
			zap.String("subject", r.subject),
			zap.Error(err),
		)
	}
}

// Close flushes pending publishes and closes the connection.
func (r *NATSRecorder) Close() {
	if err := r.conn.Flush(); err != nil {
		r.logger.Warn("flush audit records", zap.Error(err))
	}
	r.conn.Close()
}

// Nop discards all records. Used when audit publishing is disabled.
type Nop struct{}

func (Nop) Record(Record) {}
func (Nop) Close()        {}

var (
	_ Recorder = (*NATSRecorder)(nil)
	_ Recorder = Nop{}
)
