package memory

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	chromem "github.com/philippgille/chromem-go"

	"github.com/memalpha/memalpha/logging"
	"github.com/memalpha/memalpha/memory/embedder"
)

// Engine is the memory storage core. It owns partitioning into per-scope
// chromem collections, embedding generation on write, vector-similarity
// queries on read, and the metadata envelope stored alongside each record.
//
// Construct one Engine per process and hand it to whatever layer dispatches
// operations; there is no package-level shared instance.
type Engine struct {
	db       *chromem.DB
	provider embedder.Provider
}

// New creates an engine over an existing chromem database.
func New(db *chromem.DB, provider embedder.Provider) *Engine {
	return &Engine{db: db, provider: provider}
}

// NewInMemory creates an engine backed by a volatile in-memory database,
// mainly for tests and examples.
func NewInMemory(provider embedder.Provider) *Engine {
	return New(chromem.NewDB(), provider)
}

// Open creates an engine backed by a persistent database at path. The
// directory is created if missing.
func Open(path string, provider embedder.Provider) (*Engine, error) {
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open vector database", goerr.V("path", path))
	}
	return New(db, provider), nil
}

// Envelope keys stored in each document's metadata slot.
const (
	metaProjectID      = "project_id"
	metaAgentID        = "agent_id"
	metaCustomMetadata = "custom_metadata"
	metaProvider       = "embedding_provider"
	metaModel          = "embedding_model"
	metaCreatedAt      = "created_at"
	metaUpdatedAt      = "updated_at"
)

var unsafeIDChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// CollectionName derives the partition name for a scope under one embedding
// provider. Characters outside [A-Za-z0-9_-] are replaced with underscores,
// so distinct raw IDs can collide after sanitization (e.g. "a/b" and "a_b");
// that tradeoff is accepted and kept stable for compatibility. The model
// does not participate in the name: switching models within one provider
// keeps the same partition, with each record carrying the model that
// embedded it.
func CollectionName(projectID, agentID, providerName string) string {
	safeProject := unsafeIDChars.ReplaceAllString(projectID, "_")
	safeAgent := unsafeIDChars.ReplaceAllString(agentID, "_")
	return "p_" + safeProject + "_a_" + safeAgent + "_emb_" + providerName
}

// getOrCreateCollection resolves the partition for a scope under the current
// provider, creating it with descriptive metadata on first use.
func (e *Engine) getOrCreateCollection(projectID, agentID string) (*chromem.Collection, error) {
	name := CollectionName(projectID, agentID, e.provider.ProviderName())

	metadata := map[string]string{
		metaProjectID: projectID,
		metaAgentID:   agentID,
		metaProvider:  e.provider.ProviderName(),
		metaModel:     e.provider.ModelName(),
		"embedding_dimension": strconv.Itoa(e.provider.Dimensions()),
	}

	col, err := e.db.GetOrCreateCollection(name, metadata, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve collection", goerr.V("collection", name))
	}
	return col, nil
}

// Store embeds the content and writes a new record into the scope's
// partition. Embedding failure aborts the operation before anything is
// persisted.
func (e *Engine) Store(ctx context.Context, req CreateRequest) (*Memory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	col, err := e.getOrCreateCollection(req.ProjectID, req.AgentID)
	if err != nil {
		return nil, err
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	id := NewID()

	vector, err := e.provider.Embed(ctx, req.Content)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed content", goerr.V("memory_id", id))
	}

	now := time.Now().UTC()
	envelope, err := e.envelope(req.ProjectID, req.AgentID, metadata, now, now)
	if err != nil {
		return nil, err
	}

	doc := chromem.Document{
		ID:        string(id),
		Content:   req.Content,
		Embedding: vector,
		Metadata:  envelope,
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to store memory", goerr.V("memory_id", id))
	}

	logging.From(ctx).Debug("stored memory",
		"memory_id", id, "project_id", req.ProjectID, "agent_id", req.AgentID)

	return &Memory{
		ID:                id,
		ProjectID:         req.ProjectID,
		AgentID:           req.AgentID,
		Content:           req.Content,
		Metadata:          metadata,
		EmbeddingProvider: e.provider.ProviderName(),
		EmbeddingModel:    e.provider.ModelName(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Get looks a memory up by exact ID within the scope's partition under the
// currently configured provider. A missing ID yields (nil, nil), never an
// error.
func (e *Engine) Get(ctx context.Context, projectID, agentID string, id ID) (*Memory, error) {
	if err := validateScope(projectID, agentID); err != nil {
		return nil, err
	}

	col, err := e.getOrCreateCollection(projectID, agentID)
	if err != nil {
		return nil, err
	}

	// chromem's GetByID fails only for unknown IDs, which is the absence
	// signal here.
	doc, err := col.GetByID(ctx, string(id))
	if err != nil {
		return nil, nil
	}

	return memoryFromEnvelope(doc.ID, doc.Content, doc.Metadata)
}

// Search embeds the query with the partition's provider and runs a
// k-nearest-neighbor query, post-filtered by the typed metadata filters.
// Results arrive nearest first with similarity in [0,1]. An empty scope or
// a zero limit yields an empty result, never an error.
func (e *Engine) Search(ctx context.Context, projectID, agentID, query string, limit int, filters []Filter) ([]SearchResult, error) {
	if err := validateScope(projectID, agentID); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	col, err := e.getOrCreateCollection(projectID, agentID)
	if err != nil {
		return nil, err
	}

	count := col.Count()
	if limit == 0 || count == 0 {
		return []SearchResult{}, nil
	}

	// chromem rejects nResults above the document count. With filters the
	// full partition is ranked so post-filtering can still fill the limit.
	k := limit
	if len(filters) > 0 || k > count {
		k = count
	}

	queryVector, err := e.provider.Embed(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}

	results, err := col.QueryEmbedding(ctx, queryVector, k, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query memories",
			goerr.V("project_id", projectID), goerr.V("agent_id", agentID))
	}

	searchResults := make([]SearchResult, 0, len(results))
	for _, result := range results {
		mem, err := memoryFromEnvelope(result.ID, result.Content, result.Metadata)
		if err != nil {
			logging.From(ctx).Warn("skipping undecodable memory", "memory_id", result.ID, "error", err)
			continue
		}
		if !matchAll(filters, mem.Metadata) {
			continue
		}
		searchResults = append(searchResults, SearchResult{
			Memory:     mem,
			Similarity: similarityScore(result.Similarity),
		})
		if len(searchResults) == limit {
			break
		}
	}

	return searchResults, nil
}

// Update applies a partial update: absent fields keep their stored value,
// a supplied metadata mapping replaces the stored one wholesale. Supplying
// content re-embeds exactly once; metadata-only updates reuse the stored
// vector. Returns (nil, nil) when the ID does not exist.
func (e *Engine) Update(ctx context.Context, projectID, agentID string, id ID, req UpdateRequest) (*Memory, error) {
	if err := validateScope(projectID, agentID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	col, err := e.getOrCreateCollection(projectID, agentID)
	if err != nil {
		return nil, err
	}

	doc, err := col.GetByID(ctx, string(id))
	if err != nil {
		return nil, nil
	}
	existing, err := memoryFromEnvelope(doc.ID, doc.Content, doc.Metadata)
	if err != nil {
		return nil, err
	}

	newContent := existing.Content
	vector := doc.Embedding
	if req.Content != nil {
		newContent = *req.Content
		vector, err = e.provider.Embed(ctx, newContent)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to re-embed content", goerr.V("memory_id", id))
		}
	}

	newMetadata := existing.Metadata
	if req.Metadata != nil {
		newMetadata = req.Metadata
	}

	now := time.Now().UTC()
	envelope, err := e.envelope(projectID, agentID, newMetadata, existing.CreatedAt, now)
	if err != nil {
		return nil, err
	}
	// Keep the provider identity the record was written with.
	envelope[metaProvider] = existing.EmbeddingProvider
	envelope[metaModel] = existing.EmbeddingModel

	updated := chromem.Document{
		ID:        string(id),
		Content:   newContent,
		Embedding: vector,
		Metadata:  envelope,
	}
	if err := col.AddDocument(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update memory", goerr.V("memory_id", id))
	}

	logging.From(ctx).Debug("updated memory",
		"memory_id", id, "content_changed", req.Content != nil)

	return &Memory{
		ID:                id,
		ProjectID:         projectID,
		AgentID:           agentID,
		Content:           newContent,
		Metadata:          newMetadata,
		EmbeddingProvider: existing.EmbeddingProvider,
		EmbeddingModel:    existing.EmbeddingModel,
		CreatedAt:         existing.CreatedAt,
		UpdatedAt:         now,
	}, nil
}

// Delete removes a memory by ID. It is best-effort and non-throwing: every
// failure, including an unknown ID, reports false.
func (e *Engine) Delete(ctx context.Context, projectID, agentID string, id ID) bool {
	if err := validateScope(projectID, agentID); err != nil {
		return false
	}

	col, err := e.getOrCreateCollection(projectID, agentID)
	if err != nil {
		return false
	}

	if _, err := col.GetByID(ctx, string(id)); err != nil {
		return false
	}
	if err := col.Delete(ctx, nil, nil, string(id)); err != nil {
		logging.From(ctx).Warn("failed to delete memory", "memory_id", id, "error", err)
		return false
	}

	logging.From(ctx).Debug("deleted memory", "memory_id", id)
	return true
}

// List returns metadata-only projections for the scope, paginated
// client-side over the full partition. Order is whatever ranking the store
// produces for a fixed probe vector; creation order is not guaranteed.
func (e *Engine) List(ctx context.Context, projectID, agentID string, limit, offset int, filters []Filter) ([]MemoryMetadata, error) {
	if err := validateScope(projectID, agentID); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if offset < 0 {
		return nil, ErrInvalidOffset
	}
	if err := validateFilters(filters); err != nil {
		return nil, err
	}

	col, err := e.getOrCreateCollection(projectID, agentID)
	if err != nil {
		return nil, err
	}

	count := col.Count()
	if limit == 0 || count == 0 {
		return []MemoryMetadata{}, nil
	}

	// chromem has no scan primitive; ranking the whole partition against a
	// constant probe vector enumerates every document.
	dims := e.provider.Dimensions()
	if dims < 1 {
		return nil, goerr.New("embedding provider reports no dimensions",
			goerr.V("provider", e.provider.ProviderName()))
	}
	probe := make([]float32, dims)
	probe[0] = 1

	results, err := col.QueryEmbedding(ctx, probe, count, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list memories",
			goerr.V("project_id", projectID), goerr.V("agent_id", agentID))
	}

	all := make([]MemoryMetadata, 0, len(results))
	for _, result := range results {
		mem, err := memoryFromEnvelope(result.ID, result.Content, result.Metadata)
		if err != nil {
			logging.From(ctx).Warn("skipping undecodable memory", "memory_id", result.ID, "error", err)
			continue
		}
		if !matchAll(filters, mem.Metadata) {
			continue
		}
		all = append(all, MemoryMetadata{
			ID:                mem.ID,
			ProjectID:         mem.ProjectID,
			AgentID:           mem.AgentID,
			Metadata:          mem.Metadata,
			EmbeddingProvider: mem.EmbeddingProvider,
			EmbeddingModel:    mem.EmbeddingModel,
			CreatedAt:         mem.CreatedAt,
			UpdatedAt:         mem.UpdatedAt,
		})
	}

	if offset >= len(all) {
		return []MemoryMetadata{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// envelope builds the metadata mapping persisted alongside each record.
func (e *Engine) envelope(projectID, agentID string, metadata map[string]any, createdAt, updatedAt time.Time) (map[string]string, error) {
	custom, err := json.Marshal(metadata)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to serialize metadata")
	}
	return map[string]string{
		metaProjectID:      projectID,
		metaAgentID:        agentID,
		metaCustomMetadata: string(custom),
		metaProvider:       e.provider.ProviderName(),
		metaModel:          e.provider.ModelName(),
		metaCreatedAt:      createdAt.Format(time.RFC3339Nano),
		metaUpdatedAt:      updatedAt.Format(time.RFC3339Nano),
	}, nil
}

// memoryFromEnvelope rebuilds the full Memory shape from a stored document.
func memoryFromEnvelope(id, content string, envelope map[string]string) (*Memory, error) {
	metadata, err := deserializeMetadata(envelope[metaCustomMetadata])
	if err != nil {
		return nil, goerr.Wrap(err, "failed to deserialize metadata", goerr.V("memory_id", id))
	}

	createdAt, err := time.Parse(time.RFC3339Nano, envelope[metaCreatedAt])
	if err != nil {
		return nil, goerr.Wrap(err, "invalid created_at timestamp", goerr.V("memory_id", id))
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, envelope[metaUpdatedAt])
	if err != nil {
		return nil, goerr.Wrap(err, "invalid updated_at timestamp", goerr.V("memory_id", id))
	}

	return &Memory{
		ID:                ID(id),
		ProjectID:         envelope[metaProjectID],
		AgentID:           envelope[metaAgentID],
		Content:           content,
		Metadata:          metadata,
		EmbeddingProvider: envelope[metaProvider],
		EmbeddingModel:    envelope[metaModel],
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}, nil
}

func deserializeMetadata(raw string) (map[string]any, error) {
	if raw == "" || raw == "null" {
		return map[string]any{}, nil
	}
	var metadata map[string]any
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil, err
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return metadata, nil
}

// similarityScore converts the store's cosine similarity into the bounded
// score contract: distance = 1 - s, score = 1/(1+distance), clamped to [0,1].
func similarityScore(cosine float32) float64 {
	distance := 1 - float64(cosine)
	score := 1 / (1 + distance)
	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}

func validateScope(projectID, agentID string) error {
	if projectID == "" {
		return ErrMissingProjectID
	}
	if agentID == "" {
		return ErrMissingAgentID
	}
	return nil
}
