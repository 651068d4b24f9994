package llm

import (
	"fmt"
	"sort"
	"sync"
)

// Dialect maps CompletionRequest and CompletionResponse to and from one
// provider's HTTP format.
type Dialect interface {
	// Name returns the dialect identifier, e.g. "openai".
	Name() string

	// ChatPath returns the chat completion endpoint relative to the base URL.
	ChatPath() string

	// HealthPath returns a cheap GET endpoint. Empty means none.
	HealthPath() string

	// BuildRequest maps req to the provider's JSON request body.
	BuildRequest(req CompletionRequest) (any, error)

	// ParseResponse maps the provider's JSON response body.
	ParseResponse(body []byte) (*CompletionResponse, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect adds a dialect to the global registry. Dialect packages
// call it from init.
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect retrieves a registered dialect by name.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown dialect %q (forgot to import driver?)", name)
	}
	return d, nil
}

// Dialects returns the sorted names of all registered dialects.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
