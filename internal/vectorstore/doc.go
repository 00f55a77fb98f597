// Package vectorstore provides vector storage for the statute corpus.
//
// Two implementations are available behind the Store interface:
//
//   - ChromemStore: embedded chromem-go database (default, no external service)
//   - QdrantStore: external Qdrant reached over gRPC
//
// Both embed document text through the injected Embedder and support
// similarity search over named collections. The provider is selected via
// config (see NewStore).
package vectorstore
