// Package types defines the entity types, operation results, error kinds and
// backend configuration shared by the imgspace storage layer and its callers.
package types
