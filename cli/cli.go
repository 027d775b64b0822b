// Package cli wires configuration, the embedding provider, the storage
// engine, and the MCP server into the memalpha command.
package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v3"

	"github.com/memalpha/memalpha/logging"
	"github.com/memalpha/memalpha/memory"
	"github.com/memalpha/memalpha/memory/embedder"
	"github.com/memalpha/memalpha/memory/embedder/cached"
	"github.com/memalpha/memalpha/memory/embedder/mock"
	"github.com/memalpha/memalpha/memory/embedder/onnx"
	"github.com/memalpha/memalpha/memory/embedder/openai"
	"github.com/memalpha/memalpha/scratchpad"
	"github.com/memalpha/memalpha/server"
)

// Version is stamped at build time.
var Version = "0.1.0"

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "memalpha",
		Usage: "Persistent semantic memory and scratch workspace for agents",
		Commands: []*cli.Command{
			serveCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}

func serveCommand() *cli.Command {
	var (
		dataDir        string
		logLevel       string
		providerName   string
		openaiAPIKey   string
		openaiBaseURL  string
		embeddingModel string
		onnxModelPath  string
		tokenizerPath  string
		onnxLibPath    string
		cacheEntries   int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server on stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "Directory for vector data and scratchpads",
				Sources:     cli.EnvVars("MEMALPHA_DATA_DIR"),
				Destination: &dataDir,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Value:       "info",
				Sources:     cli.EnvVars("MEMALPHA_LOG_LEVEL"),
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "embedding-provider",
				Usage:       "Embedding backend: local, openai or mock",
				Value:       "local",
				Sources:     cli.EnvVars("MEMALPHA_EMBEDDING_PROVIDER"),
				Destination: &providerName,
			},
			&cli.StringFlag{
				Name:        "openai-api-key",
				Usage:       "API key for the OpenAI-compatible embedding endpoint",
				Sources:     cli.EnvVars("MEMALPHA_OPENAI_API_KEY"),
				Destination: &openaiAPIKey,
			},
			&cli.StringFlag{
				Name:        "openai-base-url",
				Usage:       "Base URL for OpenAI-compatible endpoints",
				Sources:     cli.EnvVars("MEMALPHA_OPENAI_BASE_URL"),
				Destination: &openaiBaseURL,
			},
			&cli.StringFlag{
				Name:        "embedding-model",
				Usage:       "Embedding model name",
				Sources:     cli.EnvVars("MEMALPHA_EMBEDDING_MODEL"),
				Destination: &embeddingModel,
			},
			&cli.StringFlag{
				Name:        "onnx-model",
				Usage:       "Path to the ONNX model file for local embeddings",
				Sources:     cli.EnvVars("MEMALPHA_ONNX_MODEL"),
				Destination: &onnxModelPath,
			},
			&cli.StringFlag{
				Name:        "onnx-tokenizer",
				Usage:       "Path to the tokenizer.json for local embeddings",
				Sources:     cli.EnvVars("MEMALPHA_ONNX_TOKENIZER"),
				Destination: &tokenizerPath,
			},
			&cli.StringFlag{
				Name:        "onnx-library",
				Usage:       "Path to libonnxruntime.so",
				Sources:     cli.EnvVars("MEMALPHA_ONNX_LIBRARY"),
				Destination: &onnxLibPath,
			},
			&cli.IntFlag{
				Name:        "embedding-cache",
				Usage:       "Max cached embeddings (0 disables the cache)",
				Sources:     cli.EnvVars("MEMALPHA_EMBEDDING_CACHE"),
				Destination: &cacheEntries,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.New(logLevel, os.Stderr)
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			if dataDir == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return goerr.Wrap(err, "failed to resolve home directory")
				}
				dataDir = filepath.Join(home, ".local", "share", "memalpha")
			}

			provider, err := buildProvider(providerName, providerConfig{
				apiKey:        openaiAPIKey,
				baseURL:       openaiBaseURL,
				model:         embeddingModel,
				onnxModel:     onnxModelPath,
				onnxTokenizer: tokenizerPath,
				onnxLibrary:   onnxLibPath,
			})
			if err != nil {
				return err
			}
			if cacheEntries > 0 {
				provider, err = cached.New(provider, cacheEntries)
				if err != nil {
					return err
				}
			}

			logger.Info("initializing memalpha",
				"data_dir", dataDir,
				"embedding_provider", provider.ProviderName(),
				"embedding_model", provider.ModelName())

			engine, err := memory.Open(filepath.Join(dataDir, "chroma"), provider)
			if err != nil {
				return err
			}

			pads, err := scratchpad.New(filepath.Join(dataDir, "scratchpads"))
			if err != nil {
				return err
			}

			srv := server.New(engine, pads, Version)
			logger.Info("starting MCP server on stdio")
			return srv.Run(ctx, &mcp.StdioTransport{})
		},
	}
}

type providerConfig struct {
	apiKey        string
	baseURL       string
	model         string
	onnxModel     string
	onnxTokenizer string
	onnxLibrary   string
}

// buildProvider selects the embedding backend. Unknown names fail loudly
// instead of silently defaulting.
func buildProvider(name string, cfg providerConfig) (embedder.Provider, error) {
	switch name {
	case "local":
		return onnx.New(onnx.Config{
			ModelPath:     cfg.onnxModel,
			TokenizerPath: cfg.onnxTokenizer,
			LibraryPath:   cfg.onnxLibrary,
			Model:         cfg.model,
		})
	case "openai":
		return openai.New(openai.Config{
			APIKey:  cfg.apiKey,
			BaseURL: cfg.baseURL,
			Model:   cfg.model,
		})
	case "mock":
		return mock.New(0), nil
	default:
		return nil, goerr.Wrap(embedder.ErrUnknownProvider,
			"valid options are: local, openai, mock", goerr.V("provider", name))
	}
}
