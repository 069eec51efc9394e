// Package memory provides in-memory implementations of driven ports.
//
// VectorStore mirrors the sqlite vector store for dry runs (--memory) and
// tests. ConfigStore stands in for the TOML file in service tests.
package memory
