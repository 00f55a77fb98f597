package detector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statutelabs/statuted/internal/vectorstore"
)

// fakeStore serves canned search results.
type fakeStore struct {
	results    []vectorstore.SearchResult
	searchErr  error
	lastQuery  string
	lastK      int
	collection string
}

func (f *fakeStore) AddDocuments(ctx context.Context, docs []vectorstore.Document) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) Search(ctx context.Context, query string, k int) ([]vectorstore.SearchResult, error) {
	f.lastQuery = query
	f.lastK = k
	return f.results, f.searchErr
}

func (f *fakeStore) SearchInCollection(ctx context.Context, collection, query string, k int) ([]vectorstore.SearchResult, error) {
	f.collection = collection
	return f.Search(ctx, query, k)
}

func (f *fakeStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	return nil
}

func (f *fakeStore) CollectionExists(ctx context.Context, collection string) (bool, error) {
	return true, nil
}

func (f *fakeStore) Close() error { return nil }

var _ vectorstore.Store = (*fakeStore)(nil)

func passage(act string) vectorstore.SearchResult {
	return vectorstore.SearchResult{
		Content:  "statute text",
		Metadata: map[string]interface{}{"act": act, "source": act + ".txt"},
	}
}

func TestHeuristic_AmbiguousAcrossActs(t *testing.T) {
	store := &fakeStore{results: []vectorstore.SearchResult{
		passage("CGST Act"),
		passage("IGST Act"),
		passage("CGST Act"),
	}}
	h, err := NewHeuristic(store, HeuristicConfig{}, nil)
	require.NoError(t, err)

	verdict, err := h.Detect(context.Background(), "What is section 17(5)?")
	require.NoError(t, err)

	assert.True(t, verdict.Ambiguous)
	assert.Equal(t,
		"Section 17(5) exists in multiple GST Acts (CGST Act, IGST Act). Which Act are you referring to?",
		verdict.ClarificationQuestion)
	assert.Equal(t, []string{"CGST Act", "IGST Act"}, verdict.Terms)
	assert.Equal(t, 8, store.lastK)
}

func TestHeuristic_SingleActUnambiguous(t *testing.T) {
	store := &fakeStore{results: []vectorstore.SearchResult{
		passage("CGST Act"),
		passage("CGST Act"),
	}}
	h, err := NewHeuristic(store, HeuristicConfig{}, nil)
	require.NoError(t, err)

	verdict, err := h.Detect(context.Background(), "What is section 17(5)?")
	require.NoError(t, err)
	assert.False(t, verdict.Ambiguous)
}

func TestHeuristic_NoSectionReference(t *testing.T) {
	store := &fakeStore{}
	h, err := NewHeuristic(store, HeuristicConfig{}, nil)
	require.NoError(t, err)

	verdict, err := h.Detect(context.Background(), "What is the GST rate on cement?")
	require.NoError(t, err)
	assert.False(t, verdict.Ambiguous)
	assert.Empty(t, store.lastQuery, "no retrieval without a section reference")
}

func TestHeuristic_ActAlreadyNamed(t *testing.T) {
	store := &fakeStore{results: []vectorstore.SearchResult{
		passage("CGST Act"),
		passage("IGST Act"),
	}}
	h, err := NewHeuristic(store, HeuristicConfig{}, nil)
	require.NoError(t, err)

	verdict, err := h.Detect(context.Background(), "What is section 17(5) of the CGST Act?")
	require.NoError(t, err)
	assert.False(t, verdict.Ambiguous)
	assert.Empty(t, store.lastQuery, "no retrieval when the Act is explicit")
}

func TestHeuristic_SearchErrorPropagates(t *testing.T) {
	store := &fakeStore{searchErr: errors.New("backend down")}
	h, err := NewHeuristic(store, HeuristicConfig{}, nil)
	require.NoError(t, err)

	_, err = h.Detect(context.Background(), "What is section 17(5)?")
	assert.Error(t, err)
}

func TestHeuristic_CustomCollectionAndTopK(t *testing.T) {
	store := &fakeStore{}
	h, err := NewHeuristic(store, HeuristicConfig{Collection: "gst_circulars", TopK: 3}, nil)
	require.NoError(t, err)

	_, err = h.Detect(context.Background(), "What is section 9?")
	require.NoError(t, err)
	assert.Equal(t, "gst_circulars", store.collection)
	assert.Equal(t, 3, store.lastK)
}

func TestNewHeuristic_RequiresStore(t *testing.T) {
	_, err := NewHeuristic(nil, HeuristicConfig{}, nil)
	assert.Error(t, err)
}

func TestDistinctActs(t *testing.T) {
	results := []vectorstore.SearchResult{
		passage("IGST Act"),
		passage("CGST Act"),
		passage("IGST Act"),
		{Content: "untagged", Metadata: map[string]interface{}{}},
	}
	assert.Equal(t, []string{"CGST Act", "IGST Act"}, distinctActs(results))
	assert.Empty(t, distinctActs(nil))
}
