package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCollectionName(t *testing.T) {
	valid := []string{
		"statuted_corpus",
		"gst_circulars",
		"a",
		"collection_123",
	}
	for _, name := range valid {
		assert.NoError(t, ValidateCollectionName(name), "name: %q", name)
	}

	invalid := []string{
		"",
		"Statuted",
		"has space",
		"has-dash",
		"../traversal",
		"dots.in.name",
		"waytoolongwaytoolongwaytoolongwaytoolongwaytoolongwaytoolongwaytoolong",
	}
	for _, name := range invalid {
		err := ValidateCollectionName(name)
		assert.ErrorIs(t, err, ErrInvalidCollectionName, "name: %q", name)
	}
}

func TestSearchResult_MetadataHelpers(t *testing.T) {
	r := SearchResult{Metadata: map[string]interface{}{
		"act":    "CGST Act",
		"source": "cgst_act_2017.txt",
	}}
	assert.Equal(t, "CGST Act", r.Act())
	assert.Equal(t, "cgst_act_2017.txt", r.Source())

	empty := SearchResult{Metadata: map[string]interface{}{"chunk": 3}}
	assert.Empty(t, empty.Act())
	assert.Empty(t, empty.Source())
}

func TestNewStore_UnknownProvider(t *testing.T) {
	_, err := NewStore(Config{Provider: "pinecone"}, stubEmbedder{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestChromemConfig_Defaults(t *testing.T) {
	var cfg ChromemConfig
	cfg.ApplyDefaults()
	assert.Equal(t, "~/.config/statuted/vectorstore", cfg.Path)
	assert.Equal(t, "statuted_corpus", cfg.DefaultCollection)
	assert.Equal(t, 384, cfg.VectorSize)
	assert.NoError(t, cfg.Validate())
}

func TestQdrantConfig_Defaults(t *testing.T) {
	var cfg QdrantConfig
	cfg.ApplyDefaults()
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 6334, cfg.Port)
	assert.Equal(t, "statuted_corpus", cfg.CollectionName)
	assert.Equal(t, uint64(384), cfg.VectorSize)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.NoError(t, cfg.Validate())
}
