package main

import (
	"context"
	"fmt"

	"github.com/kbukum/transcribekit/bootstrap"
	"github.com/kbukum/transcribekit/encryption"
	"github.com/kbukum/transcribekit/httpclient"
	"github.com/kbukum/transcribekit/logger"
	"github.com/kbukum/transcribekit/observability"
	"github.com/kbukum/transcribekit/provider"
	"github.com/kbukum/transcribekit/storage"
	"github.com/kbukum/transcribekit/transcription"
	"github.com/kbukum/transcribekit/transcription/archive"
	"github.com/kbukum/transcribekit/transcription/jobs"
	"github.com/kbukum/transcribekit/transcription/whisper"

	_ "github.com/kbukum/transcribekit/storage/local"
	_ "github.com/kbukum/transcribekit/storage/s3"
)

// componentLoggers are the names packages pass to logger.Get.
var componentLoggers = []string{"transcription", "archive", "provider", "storage"}

// services are built once the components are started.
type services struct {
	client  *jobs.Client
	poller  *jobs.Poller
	manager *provider.Manager[transcription.Provider]
	archive *archive.Archive
}

type application struct {
	*bootstrap.App[*AppConfig]
	svc *services
}

// newApplication registers the components a command needs and arranges for
// services to be wired after they start. Storage is only started when the
// command or the presigner uses it.
func newApplication(cfg *AppConfig, needStorage bool, opts ...bootstrap.Option) (*application, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	needStorage = needStorage || cfg.Presigner.Mode == PresignerS3

	hcCfg, err := cfg.HTTPConfig()
	if err != nil {
		return nil, err
	}

	telemetry := observability.NewComponent(cfg.Telemetry)
	httpComp := httpclient.NewComponent(hcCfg)
	var store *storage.Component
	if needStorage {
		store = storage.NewComponent(cfg.Storage, app.Logger)
	}

	if err := app.RegisterComponent(telemetry); err != nil {
		return nil, err
	}
	if store != nil {
		if err := app.RegisterComponent(store); err != nil {
			return nil, err
		}
	}
	if err := app.RegisterComponent(httpComp); err != nil {
		return nil, err
	}

	logger.RegisterDefaults(app.Logger, componentLoggers...)

	a := &application{App: app}
	app.OnConfigure(func(_ context.Context, app *bootstrap.App[*AppConfig]) error {
		var st storage.Storage
		if store != nil {
			st = store.Storage()
		}
		svc, err := buildServices(app.Cfg, httpComp.Client(), st, app.Logger)
		if err != nil {
			return err
		}
		a.svc = svc
		return nil
	})
	return a, nil
}

// buildServices wires the job client, poller, provider manager and archive.
// st may be nil when no command needs storage.
func buildServices(cfg *AppConfig, hc *httpclient.Client, st storage.Storage, log *logger.Logger) (*services, error) {
	clientOpts := []jobs.ClientOption{jobs.WithLogger(log)}
	if cfg.Presigner.Mode == PresignerS3 {
		up, ok := st.(storage.UploadPresigner)
		if !ok {
			return nil, fmt.Errorf("presigner: storage provider %q cannot presign uploads", cfg.Storage.Provider)
		}
		clientOpts = append(clientOpts, jobs.WithPresigner(jobs.NewS3Presigner(up, cfg.Presigner.Prefix, cfg.Presigner.Expiry)))
	}
	client := jobs.NewClient(hc, clientOpts...)

	metrics, err := observability.NewTranscriptionMetrics(observability.Meter())
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	poller, err := jobs.NewPoller(client, cfg.Polling,
		jobs.WithMetrics(metrics),
		jobs.WithPollerLogger(log),
	)
	if err != nil {
		return nil, err
	}

	manager := transcription.NewManager(transcription.WithPriority(cfg.Providers()...))
	manager.Register(whisper.ProviderName, whisper.Factory())
	for _, name := range cfg.Providers() {
		switch name {
		case jobs.ProviderName:
			manager.Add(name, jobs.NewProvider(client, poller))
		case whisper.ProviderName:
			if err := manager.Initialize(name, cfg.Whisper); err != nil {
				return nil, err
			}
		}
	}
	if cfg.Provider.Name != "" {
		if err := manager.SetDefault(cfg.Provider.Name); err != nil {
			return nil, err
		}
	}

	svc := &services{client: client, poller: poller, manager: manager}
	if st != nil {
		archiveOpts := []archive.Option{archive.WithPrefix(cfg.Archive.Prefix), archive.WithLogger(log)}
		if cfg.Archive.Encryption.Enabled() {
			enc, err := encryption.New(cfg.Archive.Encryption)
			if err != nil {
				return nil, fmt.Errorf("archive: %w", err)
			}
			archiveOpts = append(archiveOpts, archive.WithEncryptor(enc))
		}
		svc.archive = archive.New(st, archiveOpts...)
	}
	return svc, nil
}
