package http

// QueryRequest is the request body for POST /api/v1/query.
type QueryRequest struct {
	// Question is the user's question, or their reply to a pending
	// clarification question.
	Question string `json:"question"`

	// SessionID continues an existing session. Empty starts a new one.
	SessionID string `json:"session_id,omitempty"`
}

// QueryResponse is the response body for POST /api/v1/query.
type QueryResponse struct {
	SessionID string `json:"session_id"`

	// RequiresClarification is true when the service needs more
	// information before it can answer. The client should present
	// ClarificationQuestion and send the user's reply in the next
	// request with the same session_id.
	RequiresClarification bool `json:"requires_clarification"`

	// ClarificationQuestion is set when RequiresClarification is true.
	ClarificationQuestion string `json:"clarification_question,omitempty"`

	// PendingQuestion echoes the original question held open while the
	// clarification is outstanding.
	PendingQuestion string `json:"pending_question,omitempty"`

	// Answer is the generated answer when no clarification is needed.
	Answer string `json:"answer,omitempty"`

	// Sources maps each contributing corpus document to the number of
	// passages it supplied.
	Sources map[string]int `json:"sources,omitempty"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Sessions int               `json:"sessions"`
	Services map[string]string `json:"services,omitempty"`
}
