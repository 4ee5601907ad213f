package embedding

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vectors [][]float32
	err     error
}

func (f *fakeEmbedder) CreateEmbeddings(_ context.Context, _ openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	if f.err != nil {
		return openai.EmbeddingResponse{}, f.err
	}
	data := make([]openai.Embedding, len(f.vectors))
	for i, v := range f.vectors {
		data[i] = openai.Embedding{Embedding: v}
	}
	return openai.EmbeddingResponse{Data: data}, nil
}

func TestSimilarity_PicksBestReference(t *testing.T) {
	c := &Client{api: &fakeEmbedder{vectors: [][]float32{
		{1, 0, 0},       // candidate
		{0, 1, 0},       // orthogonal reference
		{0.9, 0.1, 0},   // close reference
	}}, model: defaultModel}

	sim, err := c.Similarity(context.Background(), "nike", []string{"sports", "sportswear brand"})
	require.NoError(t, err)
	assert.Greater(t, sim, 0.9)
	assert.LessOrEqual(t, sim, 1.0)
}

func TestSimilarity_OrthogonalIsZero(t *testing.T) {
	c := &Client{api: &fakeEmbedder{vectors: [][]float32{
		{1, 0},
		{0, 1},
	}}, model: defaultModel}

	sim, err := c.Similarity(context.Background(), "nike", []string{"unrelated"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

func TestSimilarity_NegativeClampsToZero(t *testing.T) {
	c := &Client{api: &fakeEmbedder{vectors: [][]float32{
		{1, 0},
		{-1, 0},
	}}, model: defaultModel}

	sim, err := c.Similarity(context.Background(), "nike", []string{"opposite"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

func TestSimilarity_InputValidation(t *testing.T) {
	c := &Client{api: &fakeEmbedder{}, model: defaultModel}

	_, err := c.Similarity(context.Background(), "", []string{"ref"})
	require.Error(t, err)

	_, err = c.Similarity(context.Background(), "nike", nil)
	require.Error(t, err)
}

func TestSimilarity_APIError(t *testing.T) {
	c := &Client{api: &fakeEmbedder{err: eris.New("rate limited")}, model: defaultModel}

	_, err := c.Similarity(context.Background(), "nike", []string{"ref"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create embeddings")
}

func TestSimilarity_VectorCountMismatch(t *testing.T) {
	c := &Client{api: &fakeEmbedder{vectors: [][]float32{{1, 0}}}, model: defaultModel}

	_, err := c.Similarity(context.Background(), "nike", []string{"ref"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 vectors")
}

func TestNew_Options(t *testing.T) {
	c := New("test-key")
	assert.Equal(t, defaultModel, c.model)

	c = New("test-key", WithModel("text-embedding-3-large"))
	assert.Equal(t, openai.EmbeddingModel("text-embedding-3-large"), c.model)
}

func TestCosine_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, cosine(nil, nil))
	assert.Equal(t, 0.0, cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, cosine([]float32{0, 0}, []float32{1, 0}))
}
