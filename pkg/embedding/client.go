// Package embedding scores semantic similarity between a candidate text
// and a reference phrase set using OpenAI embeddings.
package embedding

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
	"github.com/sashabaranov/go-openai"
)

const defaultModel = openai.SmallEmbedding3

// embedder is the slice of the OpenAI client the package uses, so tests
// can substitute a fake.
type embedder interface {
	CreateEmbeddings(ctx context.Context, req openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Client computes embedding similarity. Construct with New.
type Client struct {
	api   embedder
	model openai.EmbeddingModel
}

// Option configures the client.
type Option func(*Client)

// WithModel overrides the default embedding model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = openai.EmbeddingModel(model) }
}

// New creates an embedding client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		api:   openai.NewClient(apiKey),
		model: defaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Similarity embeds the text together with the reference set in one request
// and returns the maximum cosine similarity, clamped to [0,1].
func (c *Client) Similarity(ctx context.Context, text string, referenceSet []string) (float64, error) {
	if text == "" {
		return 0, eris.New("embedding: empty text")
	}
	if len(referenceSet) == 0 {
		return 0, eris.New("embedding: empty reference set")
	}

	inputs := append([]string{text}, referenceSet...)
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: inputs,
		Model: c.model,
	})
	if err != nil {
		return 0, eris.Wrap(err, "embedding: create embeddings")
	}
	if len(resp.Data) != len(inputs) {
		return 0, eris.Errorf("embedding: expected %d vectors, got %d", len(inputs), len(resp.Data))
	}

	candidate := resp.Data[0].Embedding
	best := 0.0
	for _, ref := range resp.Data[1:] {
		if sim := cosine(candidate, ref.Embedding); sim > best {
			best = sim
		}
	}
	return best, nil
}

// cosine returns cosine similarity clamped to [0,1]; negative similarity
// carries no signal for brand matching.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
