package mock_test

import (
	"context"
	"math"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/memalpha/memalpha/memory/embedder/mock"
)

func TestEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	m := mock.New(0)

	first, err := m.Embed(ctx, "hello world")
	gt.NoError(t, err)
	second, err := m.Embed(ctx, "hello world")
	gt.NoError(t, err)
	gt.Equal(t, first, second)

	other, err := m.Embed(ctx, "something else")
	gt.NoError(t, err)
	gt.NotEqual(t, first, other)
}

func TestEmbedder_UnitVectors(t *testing.T) {
	ctx := context.Background()
	m := mock.New(0)

	vec, err := m.Embed(ctx, "normalize me")
	gt.NoError(t, err)
	gt.Equal(t, len(vec), 384)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	gt.True(t, math.Abs(math.Sqrt(norm)-1.0) < 1e-4)
}

func TestEmbedder_Dimensions(t *testing.T) {
	gt.Equal(t, mock.New(0).Dimensions(), 384)
	gt.Equal(t, mock.New(-1).Dimensions(), 384)
	gt.Equal(t, mock.New(16).Dimensions(), 16)

	ctx := context.Background()
	vec, err := mock.New(16).Embed(ctx, "short")
	gt.NoError(t, err)
	gt.Equal(t, len(vec), 16)
}

func TestEmbedder_Identity(t *testing.T) {
	m := mock.New(0)
	gt.Equal(t, m.ProviderName(), "mock")
	gt.Equal(t, m.ModelName(), "fnv-lcg")
}

func TestEmbedder_EmbedBatch(t *testing.T) {
	ctx := context.Background()
	m := mock.New(0)

	texts := []string{"one", "two", "three"}
	vectors, err := m.EmbedBatch(ctx, texts)
	gt.NoError(t, err)
	gt.Equal(t, len(vectors), 3)

	for i, text := range texts {
		single, err := m.Embed(ctx, text)
		gt.NoError(t, err)
		gt.Equal(t, vectors[i], single)
	}
}
