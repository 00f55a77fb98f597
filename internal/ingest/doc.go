// Package ingest loads statute text into the vector store.
//
// The loader walks a corpus directory of plain-text or markdown statute
// files, splits each into overlapping chunks, tags every chunk with the
// Act it belongs to, and writes the chunks in batches. Act attribution
// comes from the filename (cgst_act.txt, igst-act.md) and is what lets
// the ambiguity detector notice when a bare section number exists in
// more than one Act.
package ingest
