//go:build !onnx

// Package onnx embeds text with a local sentence-transformer model through
// ONNX Runtime. This stub is compiled when the onnx build tag is absent.
package onnx

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// Config configures the local ONNX embedder.
type Config struct {
	ModelPath     string
	TokenizerPath string
	LibraryPath   string
	Model         string
	Dimensions    int
}

// Embedder is unavailable without the onnx build tag.
type Embedder struct{}

// New fails: local embeddings need a binary built with -tags onnx and the
// ONNX Runtime shared library installed.
func New(cfg Config) (*Embedder, error) {
	return nil, goerr.New("local embeddings require a build with the onnx tag")
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, goerr.New("local embeddings require a build with the onnx tag")
}

func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, goerr.New("local embeddings require a build with the onnx tag")
}

func (e *Embedder) ProviderName() string { return "local" }
func (e *Embedder) ModelName() string    { return "" }
func (e *Embedder) Dimensions() int      { return 0 }
func (e *Embedder) Close() error         { return nil }
