// Package answer implements the retrieval-augmented answer engine.
//
// The Engine retrieves the top-k corpus passages for a resolved question,
// assembles a grounded prompt with numbered references, and generates the
// answer through a langchaingo chat model. Source attribution counts how
// many passages each corpus document contributed.
package answer
