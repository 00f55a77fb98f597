// Package auditlog records resolved queries for offline review.
//
// Every query that reaches a terminal outcome (answered, clarification
// raised, or failed) is published as a JSON record on a NATS subject, so
// downstream consumers can build usage reports without coupling to the
// serving path. Publishing is best-effort: a slow or absent broker never
// blocks or fails a query.
package auditlog
