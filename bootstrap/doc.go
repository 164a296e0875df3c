// Package bootstrap runs transcribekit commands with a uniform lifecycle.
//
// An App validates its config, initializes logging, starts registered
// components in order, runs the task with a signal-aware context and stops
// the components in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(httpComponent)
//	return app.RunTask(ctx, run)
package bootstrap
