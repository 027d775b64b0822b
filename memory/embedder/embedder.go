// Package embedder defines the text-embedding capability the memory engine
// depends on. Concrete backends live in subpackages.
package embedder

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// Provider converts text into fixed-length float vectors. The engine uses
// the provider identity (name + model) to namespace storage partitions, so
// both must be stable across restarts.
type Provider interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts texts to vectors, order-preserving, one per input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ProviderName is the stable backend family tag (e.g. "openai", "local").
	ProviderName() string

	// ModelName identifies the specific model/version.
	ModelName() string

	// Dimensions returns the vector length this provider produces.
	Dimensions() int
}

var ErrUnknownProvider = goerr.New("unknown embedding provider")
