package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/transcribekit/component"
	"github.com/kbukum/transcribekit/logger"
)

// DefaultGracefulTimeout bounds shutdown when no WithGracefulTimeout is given.
const DefaultGracefulTimeout = 15 * time.Second

// App runs a finite command with uniform lifecycle management. The type
// parameter C is the config type; any struct embedding config.ServiceConfig
// satisfies Config.
//
// Example:
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(storage.NewComponent(cfg.Storage, app.Logger))
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return transcribe(ctx, app)
//	})
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onStop  []Hook
}

// NewApp applies defaults, validates cfg and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		gracefulTimeout: DefaultGracefulTimeout,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.signals != nil {
		app.signals = o.signals
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback that runs once components are started.
// Use it to build services on top of started infrastructure.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck verifies that all registered components are healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status != component.StatusHealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// RunTask starts components, runs configure callbacks, executes task and
// shuts everything down. SIGINT or SIGTERM cancels the task context. The
// task's error takes precedence over shutdown errors.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Warn("Shutdown after failed startup reported errors", logger.ErrorFields("stop", stopErr))
		}
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	if len(a.signals) > 0 {
		signal.Notify(sigCh, a.signals...)
		defer signal.Stop(sigCh)
	}

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

// startup starts components, then runs OnStart hooks and configure callbacks.
func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Debug("Starting", logger.Fields("name", a.Name, "version", a.Version))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.ErrorFields("ready check", err))
	}
	a.Logger.Debug("Startup complete", logger.DurationFields("startup", time.Since(start)))
	return nil
}

// Shutdown stops components. Use when managing your own lifecycle.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

// stop runs OnStop hooks then stops components within the graceful timeout.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("stop hook", err))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.ErrorFields("stop", err))
		shutdownErr = err
	}
	return shutdownErr
}
