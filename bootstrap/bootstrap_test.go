package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kbukum/lyrebird/component"
	"github.com/kbukum/lyrebird/config"
	"github.com/kbukum/lyrebird/logger"
)

type testConfig struct {
	config.ServiceConfig `mapstructure:",squash"`
}

type fakeComponent struct {
	name   string
	events *[]string
	status component.HealthStatus
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	*f.events = append(*f.events, "start:"+f.name)
	return nil
}

func (f *fakeComponent) Stop(context.Context) error {
	*f.events = append(*f.events, "stop:"+f.name)
	return nil
}

func (f *fakeComponent) Health(context.Context) component.Health {
	status := f.status
	if status == "" {
		status = component.StatusHealthy
	}
	return component.Health{Name: f.name, Status: status}
}

func (f *fakeComponent) Describe() component.Description {
	return component.Description{Type: "test", Details: "details-" + f.name}
}

func (f *fakeComponent) Routes() []component.Route {
	return []component.Route{{Method: "GET", Path: "/" + f.name, Handler: "Handler." + f.name}}
}

func newTestApp(t *testing.T) (*App[*testConfig], *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app, err := NewApp(&testConfig{ServiceConfig: config.ServiceConfig{Name: "lyrebird-test"}},
		WithLogger(logger.NewNop()),
		WithSummaryOutput(&out),
	)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app, &out
}

func TestNewApp_ValidatesConfig(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.NewNop()))
	if err == nil {
		t.Fatal("expected validation error for missing name")
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	app, out := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(&fakeComponent{name: "database", events: &events})
	_ = app.RegisterComponent(&fakeComponent{name: "http-server", events: &events})

	app.OnStart(func(context.Context) error {
		events = append(events, "hook:start")
		return nil
	})
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		events = append(events, "configure:"+a.Cfg.Name)
		a.Summary.TrackBusinessComponent("DictationService", "service", "database")
		return nil
	})
	app.OnStop(func(context.Context) error {
		events = append(events, "hook:stop")
		return nil
	})

	err := app.RunTask(context.Background(), func(context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := []string{
		"start:database", "start:http-server", "hook:start", "configure:lyrebird-test",
		"task", "hook:stop", "stop:http-server", "stop:database",
	}
	if fmt.Sprint(events) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, events)
	}

	summary := out.String()
	for _, s := range []string{"lyrebird-test", "details-database", "/http-server", "DictationService", "All components healthy (2/2)"} {
		if !strings.Contains(summary, s) {
			t.Errorf("summary missing %q:\n%s", s, summary)
		}
	}
}

func TestRunTask_ReturnsTaskError(t *testing.T) {
	app, _ := newTestApp(t)
	boom := errors.New("boom")
	if err := app.RunTask(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected task error, got %v", err)
	}
}

func TestRunTask_ConfigureFailureStopsComponents(t *testing.T) {
	app, _ := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(&fakeComponent{name: "database", events: &events})
	app.OnConfigure(func(context.Context, *App[*testConfig]) error { return errors.New("no llm key") })

	err := app.RunTask(context.Background(), func(context.Context) error {
		t.Error("task must not run")
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "configuration failed") {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if fmt.Sprint(events) != fmt.Sprint([]string{"start:database", "stop:database"}) {
		t.Errorf("unexpected events %v", events)
	}
}

func TestReadyCheck(t *testing.T) {
	app, _ := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(&fakeComponent{name: "storage", events: &events, status: component.StatusUnhealthy})

	err := app.ReadyCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "storage=unhealthy") {
		t.Fatalf("expected storage to be reported, got %v", err)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app, _ := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(&fakeComponent{name: "database", events: &events})

	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error {
		cancel()
		return nil
	})
	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fmt.Sprint(events) != fmt.Sprint([]string{"start:database", "stop:database"}) {
		t.Errorf("unexpected events %v", events)
	}
}

func TestRunTask_StartsComponentsRegisteredDuringConfigure(t *testing.T) {
	app, _ := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(&fakeComponent{name: "database", events: &events})
	app.OnConfigure(func(_ context.Context, a *App[*testConfig]) error {
		events = append(events, "configure")
		return a.RegisterComponent(&fakeComponent{name: "http-server", events: &events})
	})

	err := app.RunTask(context.Background(), func(context.Context) error { return nil })
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}
	want := []string{"start:database", "configure", "start:http-server", "stop:http-server", "stop:database"}
	if fmt.Sprint(events) != fmt.Sprint(want) {
		t.Errorf("expected %v, got %v", want, events)
	}
}
