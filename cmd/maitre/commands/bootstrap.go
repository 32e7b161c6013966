// ABOUTME: Shared wiring that assembles the assistants from configuration
// ABOUTME: Every command that needs the pipeline goes through buildApp
package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/maitre-ai/maitre/internal/charm"
	"github.com/maitre-ai/maitre/internal/chunker"
	"github.com/maitre-ai/maitre/internal/config"
	"github.com/maitre-ai/maitre/internal/contextstore"
	"github.com/maitre-ai/maitre/internal/extract"
	"github.com/maitre-ai/maitre/internal/livesearch"
	"github.com/maitre-ai/maitre/internal/llm"
	"github.com/maitre-ai/maitre/internal/orchestrator"
	"github.com/maitre-ai/maitre/internal/rag"
	"github.com/maitre-ai/maitre/internal/search"
	"github.com/maitre-ai/maitre/internal/session"
	"github.com/maitre-ai/maitre/internal/vectorstore"
	"github.com/maitre-ai/maitre/internal/vectorstore/charmkv"
	"github.com/maitre-ai/maitre/internal/vectorstore/memory"
	"github.com/maitre-ai/maitre/internal/vectorstore/qdrant"
)

// app bundles the assembled pipeline for the CLI commands.
type app struct {
	cfg      *config.Config
	docs     *rag.Assistant
	live     *livesearch.Assistant
	orch     *orchestrator.Orchestrator
	contexts *contextstore.Store
}

// buildApp loads configuration and wires every collaborator. Missing
// required configuration fails here, before any command logic runs.
func buildApp(ctx context.Context) (*app, error) {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}

	client, err := llm.NewClient(llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}
	if err := store.EnsureCollection(ctx); err != nil {
		return nil, fmt.Errorf("ensuring collection %q: %w", cfg.Collection, err)
	}
	if verbose {
		log.Printf("vector backend %s ready, collection %q", cfg.VectorBackend, cfg.Collection)
	}

	staging, err := extract.NewStaging(cfg.StagingDir)
	if err != nil {
		return nil, fmt.Errorf("staging dir: %w", err)
	}
	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("chunker: %w", err)
	}

	docs, err := rag.New(rag.Config{
		Embedder:  client,
		Synth:     client,
		Extractor: extract.New(client),
		Staging:   staging,
		Chunker:   ch,
		Store:     store,
		TopK:      cfg.TopK,
	})
	if err != nil {
		return nil, fmt.Errorf("document assistant: %w", err)
	}

	searcher, err := search.NewClient(search.Config{
		APIKey:     cfg.TavilyKey,
		BaseURL:    cfg.TavilyURL,
		MaxResults: cfg.TopK,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("search client: %w", err)
	}
	live, err := livesearch.New(searcher, client)
	if err != nil {
		return nil, fmt.Errorf("live search assistant: %w", err)
	}

	var labeler orchestrator.LabelClassifier
	if cfg.Classifier == config.ClassifierLLM {
		labeler = client
	}

	contexts := contextstore.New()
	orch, err := orchestrator.New(orchestrator.Config{
		Classifier: orchestrator.NewClassifier(labeler),
		Documents:  docs,
		Live:       live,
		Contexts:   contexts,
		Sessions:   session.NewManager(),
		Synth:      client,
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	return &app{
		cfg:      cfg,
		docs:     docs,
		live:     live,
		orch:     orch,
		contexts: contexts,
	}, nil
}

// buildStore selects the vector backend from configuration.
func buildStore(cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.VectorBackend {
	case config.BackendQdrant:
		return qdrant.New(qdrant.Config{
			URL:        cfg.QdrantURL,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.Collection,
			Dimension:  cfg.VectorDim,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		})
	case config.BackendCharm:
		client, err := charm.NewClient(charm.DefaultConfig(cfg.CharmHost))
		if err != nil {
			return nil, err
		}
		return charmkv.New(client, cfg.VectorDim)
	case config.BackendMemory:
		return memory.New(cfg.VectorDim)
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}
