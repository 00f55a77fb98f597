package answer

import (
	"fmt"
	"strings"

	"github.com/statutelabs/statuted/internal/vectorstore"
)

// systemPrompt instructs the model to answer strictly from the provided
// context, cite numbered references, and ask for the Act when a section
// reference is ambiguous across statutes.
const systemPrompt = "You are a GST compliance assistant. " +
	"Answer strictly using the provided context. " +
	"Give the answer in detail and mention all the sections and clauses as stated in the source passages. " +
	"Each passage in the context carries a reference number like [1], [2]. " +
	"Cite the reference numbers inline in your answer and finish with a 'References' section listing the cited sources. " +
	"If the question references a section number that appears in more than one GST Act and does not say which Act it means, " +
	"do not guess: ask which Act the user is referring to."

// userPromptTemplate carries the retrieved context and the question.
const userPromptTemplate = `Context:
%s

Question:
%s

Remember to cite reference numbers [1], [2], etc. inline and to provide a complete References section at the end.`

// buildContext renders retrieved passages as a numbered reference block.
func buildContext(results []vectorstore.SearchResult) string {
	if len(results) == 0 {
		return "(no matching passages found)"
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] ", i+1)
		if act := r.Act(); act != "" {
			fmt.Fprintf(&b, "%s", act)
			if src := r.Source(); src != "" {
				fmt.Fprintf(&b, " - %s", src)
			}
		} else if src := r.Source(); src != "" {
			fmt.Fprintf(&b, "%s", src)
		} else {
			fmt.Fprintf(&b, "passage %s", r.ID)
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(r.Content))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildUserPrompt assembles the user turn from context and question.
func buildUserPrompt(results []vectorstore.SearchResult, question string) string {
	return fmt.Sprintf(userPromptTemplate, buildContext(results), question)
}
