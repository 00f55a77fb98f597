// Package http exposes the statuted query API.
//
// The API is a thin layer over the clarification manager: POST
// /api/v1/query resolves a question within a session, and the response
// either carries the answer or a clarification question the client must
// answer before the original question can proceed. Sessions are
// identified by the session_id field; omitting it starts a new session.
package http
