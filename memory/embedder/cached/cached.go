// Package cached wraps a Provider with a read-through embedding cache.
// Embedding the same text repeatedly (common for recurring queries) then
// costs one backend call. The wrapper is opt-in; the engine never installs
// it on its own.
package cached

import (
	"context"

	"github.com/dgraph-io/ristretto"
	"github.com/m-mizutani/goerr/v2"

	"github.com/memalpha/memalpha/memory/embedder"
)

// DefaultMaxEntries bounds the cache when no size is given.
const DefaultMaxEntries = 4096

// Embedder is a caching decorator around another Provider. Identity
// (provider/model/dimensions) is the inner provider's, so partition naming
// is unaffected.
type Embedder struct {
	inner embedder.Provider
	cache *ristretto.Cache
}

// New wraps inner with a cache holding up to maxEntries vectors.
func New(inner embedder.Provider, maxEntries int64) (*Embedder, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create embedding cache")
	}

	return &Embedder{inner: inner, cache: cache}, nil
}

// Embed returns a cached vector when available, otherwise embeds through
// the inner provider and caches the result.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := e.key(text)
	if value, ok := e.cache.Get(key); ok {
		if vector, ok := value.([]float32); ok {
			return vector, nil
		}
	}

	vector, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.cache.Set(key, vector, 1)
	e.cache.Wait()
	return vector, nil
}

// EmbedBatch serves cached entries and embeds only the misses through the
// inner provider's batch call, preserving input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if value, ok := e.cache.Get(e.key(text)); ok {
			if vector, ok := value.([]float32); ok {
				vectors[i] = vector
				continue
			}
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		embedded, err := e.inner.EmbedBatch(ctx, missing)
		if err != nil {
			return nil, err
		}
		if len(embedded) != len(missing) {
			return nil, goerr.New("embedding count mismatch",
				goerr.V("want", len(missing)), goerr.V("got", len(embedded)))
		}
		for j, vector := range embedded {
			vectors[missingIdx[j]] = vector
			e.cache.Set(e.key(missing[j]), vector, 1)
		}
		e.cache.Wait()
	}

	return vectors, nil
}

// ProviderName reports the inner provider's family tag.
func (e *Embedder) ProviderName() string { return e.inner.ProviderName() }

// ModelName reports the inner provider's model identifier.
func (e *Embedder) ModelName() string { return e.inner.ModelName() }

// Dimensions reports the inner provider's vector size.
func (e *Embedder) Dimensions() int { return e.inner.Dimensions() }

// key namespaces cache entries by provider identity so swapping backends
// never serves stale vectors.
func (e *Embedder) key(text string) string {
	return e.inner.ProviderName() + "/" + e.inner.ModelName() + "\x00" + text
}
