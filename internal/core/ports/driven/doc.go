// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - BookExtractor: Reads chapters out of an EPUB or text file
//   - BookStore: Persists processed books and chunk files as JSON
//   - PostProcessorPipeline: Turns chapters into tagged chunks
//   - EmbeddingService: Generates vector embeddings
//   - BatchEmbedder: Normalised, batched embedding used by the services
//   - VectorStore: Persistent vector collections with similarity query
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Chat completion. Without it, analysis prints the excerpt fallback.
//   - PromptStore: Editable prompts. Without it, embedded defaults are used.
//   - ReportWriter: Without it, reports are only printed.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
