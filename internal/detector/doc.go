// Package detector provides clarify.Detector implementations.
//
// Two detectors are available:
//
//   - Heuristic: retrieves candidate passages for the question and flags a
//     bare section reference whose candidates span multiple GST Acts.
//   - Draft: generates a draft answer through the regular answering path
//     and scans it for clarification phrasing; a model that itself asks
//     "which Act?" is the ambiguity signal.
//
// Both fail by returning an error, which the caller treats as
// "unambiguous" (fail-open).
package detector
