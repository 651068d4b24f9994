// Package bootstrap runs a service's lifecycle: validate config, start the
// registered components in order, run configure callbacks and hooks, print
// a startup summary, block until a signal arrives and shut down in reverse.
//
//	app, err := bootstrap.NewApp(&cfg)
//	_ = app.RegisterComponent(dbComponent)
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    return wireHandlers(a)
//	})
//	err = app.Run(ctx)
package bootstrap
