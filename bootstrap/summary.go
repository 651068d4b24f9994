package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/lyrebird/component"
)

// BusinessComponent is a service-layer piece listed in the summary.
type BusinessComponent struct {
	Name         string
	Type         string // "service", "repository", "handler" or "client"
	Dependencies []string
}

// Summary prints the startup banner. Infrastructure and routes are
// collected from the registry; business components are tracked by hand.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	business        []BusinessComponent
	out             io.Writer
}

// NewSummary creates a summary writing to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: os.Stdout}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackBusinessComponent records a service-layer component and what it depends on.
func (s *Summary) TrackBusinessComponent(name, componentType string, dependencies ...string) {
	s.business = append(s.business, BusinessComponent{Name: name, Type: componentType, Dependencies: dependencies})
}

// Display writes the summary, including live health from registry.
func (s *Summary) Display(ctx context.Context, registry *component.Registry) {
	w := s.out
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "\n🚀 %s %s started in %.2fs\n", s.serviceName, version, s.startupDuration.Seconds())

	var (
		infra  []component.Description
		routes []component.Route
	)
	if registry != nil {
		for _, c := range registry.All() {
			if d, ok := c.(component.Describable); ok {
				desc := d.Describe()
				if desc.Name == "" {
					desc.Name = c.Name()
				}
				infra = append(infra, desc)
			}
			if rp, ok := c.(component.RouteProvider); ok {
				routes = append(routes, rp.Routes()...)
			}
		}
	}

	if len(infra) > 0 {
		fmt.Fprintf(w, "\n📊 Infrastructure\n")
		for i, d := range infra {
			details := d.Details
			if d.Port > 0 && !strings.Contains(details, fmt.Sprintf(":%d", d.Port)) {
				details = fmt.Sprintf("%s (:%d)", details, d.Port)
			}
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", branch(i, len(infra)), d.Name, d.Type, details)
		}
	}

	if len(s.business) > 0 {
		fmt.Fprintf(w, "\n💼 Business Layer\n")
		for i, b := range s.business {
			fmt.Fprintf(w, "   %s %s [%s]\n", branch(i, len(s.business)), b.Name, b.Type)
			indent := "│  "
			if i == len(s.business)-1 {
				indent = "   "
			}
			for j, dep := range b.Dependencies {
				fmt.Fprintf(w, "   %s %s 🔗 %s\n", indent, branch(j, len(b.Dependencies)), dep)
			}
		}
	}

	if len(routes) > 0 {
		fmt.Fprintf(w, "\n🌐 Routes (%d)\n", len(routes))
		for i, r := range routes {
			fmt.Fprintf(w, "   %s %-7s %s → %s\n", branch(i, len(routes)), r.Method, r.Path, r.Handler)
		}
	}

	if registry != nil {
		results := registry.HealthAll(ctx)
		if len(results) > 0 {
			fmt.Fprintf(w, "\n🏥 Health Check\n")
			healthy := 0
			for i, h := range results {
				msg := ""
				if h.Message != "" {
					msg = " (" + h.Message + ")"
				}
				if h.Status == component.StatusHealthy {
					healthy++
				}
				fmt.Fprintf(w, "   %s %s %s: %s%s\n", branch(i, len(results)), healthIcon(h.Status), h.Name, h.Status, msg)
			}
			if healthy == len(results) {
				fmt.Fprintf(w, "\n✅ All components healthy (%d/%d)\n", healthy, len(results))
			} else {
				fmt.Fprintf(w, "\n⚠️  Some components have issues (%d/%d healthy)\n", healthy, len(results))
			}
		}
	}
	fmt.Fprintln(w)
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
