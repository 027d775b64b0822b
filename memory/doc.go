// Package memory implements persistent, semantically searchable agent
// memory over an embedded vector database.
//
// Memories are partitioned per (project_id, agent_id, embedding provider)
// into isolated chromem-go collections, so different agents, projects, and
// embedding spaces never mix. Content is embedded on write and re-embedded
// only when it changes; custom metadata travels in a serialized envelope
// next to each vector.
//
// Architecture:
//   - Engine: partition resolution plus the six operations
//     (store/get/search/update/delete/list)
//   - embedder.Provider: pluggable text-to-vector backend
//     (OpenAI-compatible API, local ONNX model, deterministic mock)
//   - Filter: typed metadata predicates applied to search and list
//
// Switching the embedding provider namespaces storage into fresh
// partitions; memories written under another provider stay on disk but are
// invisible until that provider is configured again.
package memory
