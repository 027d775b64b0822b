package cached_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/memalpha/memalpha/memory/embedder/cached"
	"github.com/memalpha/memalpha/memory/embedder/mock"
)

// countingInner counts backend calls behind the cache.
type countingInner struct {
	*mock.Embedder
	embeds  int
	batches int
}

func (p *countingInner) Embed(ctx context.Context, text string) ([]float32, error) {
	p.embeds++
	return p.Embedder.Embed(ctx, text)
}

func (p *countingInner) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	p.batches++
	p.embeds += len(texts)
	return p.Embedder.EmbedBatch(ctx, texts)
}

func TestEmbedder_CacheHit(t *testing.T) {
	ctx := context.Background()
	inner := &countingInner{Embedder: mock.New(0)}
	e, err := cached.New(inner, 128)
	gt.NoError(t, err)

	first, err := e.Embed(ctx, "repeated query")
	gt.NoError(t, err)
	gt.Equal(t, inner.embeds, 1)

	second, err := e.Embed(ctx, "repeated query")
	gt.NoError(t, err)
	gt.Equal(t, inner.embeds, 1)
	gt.Equal(t, first, second)

	_, err = e.Embed(ctx, "different query")
	gt.NoError(t, err)
	gt.Equal(t, inner.embeds, 2)
}

func TestEmbedder_BatchFillsOnlyMisses(t *testing.T) {
	ctx := context.Background()
	inner := &countingInner{Embedder: mock.New(0)}
	e, err := cached.New(inner, 128)
	gt.NoError(t, err)

	warm, err := e.Embed(ctx, "warm")
	gt.NoError(t, err)
	gt.Equal(t, inner.embeds, 1)

	vectors, err := e.EmbedBatch(ctx, []string{"warm", "cold-1", "cold-2"})
	gt.NoError(t, err)
	gt.Equal(t, len(vectors), 3)
	gt.Equal(t, inner.embeds, 3)
	gt.Equal(t, inner.batches, 1)
	gt.Equal(t, vectors[0], warm)

	// The whole batch is warm now.
	again, err := e.EmbedBatch(ctx, []string{"cold-1", "cold-2"})
	gt.NoError(t, err)
	gt.Equal(t, len(again), 2)
	gt.Equal(t, inner.batches, 1)
}

func TestEmbedder_DelegatesIdentity(t *testing.T) {
	inner := mock.New(16)
	e, err := cached.New(inner, 0)
	gt.NoError(t, err)

	gt.Equal(t, e.ProviderName(), "mock")
	gt.Equal(t, e.ModelName(), "fnv-lcg")
	gt.Equal(t, e.Dimensions(), 16)
}
