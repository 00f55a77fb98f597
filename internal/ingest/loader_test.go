package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statutelabs/statuted/internal/vectorstore"
)

// collectStore records every added document.
type collectStore struct {
	mu     sync.Mutex
	docs   []vectorstore.Document
	addErr error
}

func (c *collectStore) AddDocuments(ctx context.Context, docs []vectorstore.Document) ([]string, error) {
	if c.addErr != nil {
		return nil, c.addErr
	}
	c.mu.Lock()
	c.docs = append(c.docs, docs...)
	c.mu.Unlock()
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids, nil
}

func (c *collectStore) Search(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error) {
	return nil, nil
}

func (c *collectStore) SearchInCollection(ctx context.Context, collection, query string, k int) ([]vectorstore.SearchResult, error) {
	return nil, nil
}

func (c *collectStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	return nil
}

func (c *collectStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	return true, nil
}

func (c *collectStore) Close() error { return nil }

var _ vectorstore.Store = (*collectStore)(nil)

func writeCorpusFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoader_IngestDir(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "cgst_act_2017.txt", "Section 16. Input tax credit.\n\nSection 17. Blocked credits.")
	writeCorpusFile(t, dir, "igst_act_2017.md", "Section 5. Levy and collection.")
	writeCorpusFile(t, dir, "notes.pdf", "binary noise, must be skipped")

	store := &collectStore{}
	loader, err := NewLoader(store, Config{}, nil)
	require.NoError(t, err)

	result, err := loader.IngestDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Files)
	assert.Equal(t, len(store.docs), result.Chunks)
	require.NotEmpty(t, store.docs)

	acts := map[string]bool{}
	for _, doc := range store.docs {
		assert.NotEmpty(t, doc.ID)
		assert.NotEmpty(t, doc.Content)
		assert.NotEmpty(t, doc.Metadata["source"])
		if act, ok := doc.Metadata["act"].(string); ok {
			acts[act] = true
		}
	}
	assert.True(t, acts["CGST Act"])
	assert.True(t, acts["IGST Act"])
}

func TestLoader_IngestDirEmpty(t *testing.T) {
	store := &collectStore{}
	loader, err := NewLoader(store, Config{}, nil)
	require.NoError(t, err)

	_, err = loader.IngestDir(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestLoader_ChunksLongFiles(t *testing.T) {
	dir := t.TempDir()
	// Well past one chunk: paragraphs of ~60 chars, 40 of them.
	paragraph := "Every registered person shall be entitled to take credit.\n\n"
	writeCorpusFile(t, dir, "cgst_rules.txt", strings.Repeat(paragraph, 40))

	store := &collectStore{}
	loader, err := NewLoader(store, Config{ChunkSize: 500, ChunkOverlap: 50}, nil)
	require.NoError(t, err)

	chunks, err := loader.IngestFile(context.Background(), filepath.Join(dir, "cgst_rules.txt"))
	require.NoError(t, err)
	assert.Greater(t, chunks, 1)

	for _, doc := range store.docs {
		assert.LessOrEqual(t, len(doc.Content), 500+50)
	}
}

func TestLoader_SkipsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "empty.txt", "   \n ")

	store := &collectStore{}
	loader, err := NewLoader(store, Config{}, nil)
	require.NoError(t, err)

	chunks, err := loader.IngestFile(context.Background(), filepath.Join(dir, "empty.txt"))
	require.NoError(t, err)
	assert.Zero(t, chunks)
	assert.Empty(t, store.docs)
}

func TestLoader_TargetCollection(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "circular_001.txt", "Clarification regarding refunds.")

	store := &collectStore{}
	loader, err := NewLoader(store, Config{Collection: "gst_circulars"}, nil)
	require.NoError(t, err)

	_, err = loader.IngestFile(context.Background(), filepath.Join(dir, "circular_001.txt"))
	require.NoError(t, err)

	require.NotEmpty(t, store.docs)
	for _, doc := range store.docs {
		assert.Equal(t, "gst_circulars", doc.Collection)
	}
}

func TestNewLoader_Validation(t *testing.T) {
	_, err := NewLoader(nil, Config{}, nil)
	assert.Error(t, err)

	_, err = NewLoader(&collectStore{}, Config{ChunkSize: 100, ChunkOverlap: 100}, nil)
	assert.Error(t, err)
}

func TestActFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"cgst_act_2017.txt", "CGST Act"},
		{"CGST-Act.md", "CGST Act"},
		{"central_gst.txt", "CGST Act"},
		{"igst_act_2017.txt", "IGST Act"},
		{"integrated-gst.md", "IGST Act"},
		{"utgst_act.txt", "UTGST Act"},
		{"union_territory_gst.txt", "UTGST Act"},
		{"sgst_maharashtra.txt", "SGST Act"},
		{"gst_compensation_cess.txt", "GST Compensation Act"},
		{"random_notes.txt", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActFromFilename(tt.name))
		})
	}
}
