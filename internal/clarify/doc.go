// Package clarify implements session-scoped clarification resolution.
//
// The Manager decides, for every inbound question, whether it is a fresh
// question, an answer to a pending clarification, or a stale follow-up. An
// ambiguous fresh question (as judged by the injected Detector) yields a
// counter-question and a pending state on the session; the next input on
// that session is merged back into the original question by Compose and
// forwarded to the Answerer.
//
// Collaborator failures degrade rather than block: a failing or timed-out
// Detector is treated as "unambiguous" and answering proceeds.
package clarify
