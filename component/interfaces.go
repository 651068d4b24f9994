// Package component defines the lifecycle contract shared by the server's
// infrastructure pieces (database, object store, telemetry, HTTP server)
// and a registry that starts them in order and stops them in reverse.
package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed infrastructure piece.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what a component reports about itself in the startup summary.
type Description struct {
	// Name is the display name. Empty means Component.Name().
	Name string
	// Type groups the line in the summary, e.g. "database" or "storage".
	Type    string
	Details string
	Port    int
}

// Describable is implemented by components that show up in the startup summary.
type Describable interface {
	Describe() Description
}

// Route is one registered HTTP route.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// RouteProvider is implemented by server components that can list their routes.
type RouteProvider interface {
	Routes() []Route
}
