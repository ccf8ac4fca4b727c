// Package sdk provides the core interfaces and error types shared by every scoring engine,
// whether it runs in-process, behind HTTP, or as a plugin process.
package sdk

import (
	"context"
	"time"
)

// EngineMetadata identifies a scoring engine.
type EngineMetadata struct {
	// ID is a unique identifier for the engine (e.g., "priora.builtin").
	ID string `json:"id"`

	// Name is a human-readable name for the engine.
	Name string `json:"name"`

	// Version is the semantic version of the engine.
	Version string `json:"version"`

	// Transport describes how the engine is reached ("inprocess", "http", "grpc-plugin").
	Transport string `json:"transport"`
}

// HealthStatus represents the health of an engine.
type HealthStatus struct {
	Healthy   bool      `json:"healthy"`
	Message   string    `json:"message,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Engine is the base interface all engines implement.
type Engine interface {
	// Metadata returns engine identification.
	Metadata() EngineMetadata

	// HealthCheck returns the current health status of the engine.
	HealthCheck(ctx context.Context) HealthStatus

	// Shutdown releases resources held by the engine.
	Shutdown(ctx context.Context) error
}
