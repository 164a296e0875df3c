package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/kbukum/transcribekit/config"
	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/logger"
	"github.com/kbukum/transcribekit/transcription"
	"github.com/kbukum/transcribekit/transcription/archive"
	"github.com/kbukum/transcribekit/transcription/jobs"
	"github.com/kbukum/transcribekit/version"
)

// commonFlags are accepted by every command that talks to the API.
type commonFlags struct {
	configFile string
	envFile    string
	provider   string
	debug      bool
}

func (f *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configFile, "config", "c", "", "config file (default: search ./transcribe.yml, ./config.yml, ...)")
	fs.StringVar(&f.envFile, "env-file", "", ".env file loaded before reading TRANSCRIBE_* variables")
	fs.StringVar(&f.provider, "provider", "", "pin a transcription provider (jobs or whisper)")
	fs.BoolVar(&f.debug, "debug", false, "enable debug logging")
}

func (f *commonFlags) load() (*AppConfig, error) {
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if f.provider != "" {
		cfg.Provider.Name = f.provider
	}
	if f.debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	return &cfg, nil
}

func newFlagSet(c *cli, name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.SortFlags = false
	return fs
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.InvalidInput(name, "--"+name+" is required")
	}
	return nil
}

// runCommand uploads a local recording and prints its transcript.
func (c *cli) runCommand(ctx context.Context, args []string) error {
	var (
		common   commonFlags
		file     string
		userID   string
		format   string
		language string
		keep     bool
	)
	fs := newFlagSet(c, "run")
	fs.StringVarP(&file, "file", "f", "", "audio file to transcribe")
	fs.StringVarP(&userID, "user", "u", "", "user id the job is submitted for")
	fs.StringVar(&format, "format", "", "audio format (default: file extension, then "+jobs.DefaultFormat+")")
	fs.StringVar(&language, "language", "", "language hint for providers that accept one")
	fs.BoolVar(&keep, "archive", false, "keep the recording in storage so it can be retried")
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("file", file); err != nil {
		return err
	}
	if err := required("user", userID); err != nil {
		return err
	}

	audio, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read recording: %w", err)
	}
	if format == "" {
		format = formatOf(file)
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	app, err := newApplication(cfg, keep, c.appOpts...)
	if err != nil {
		return err
	}
	return app.RunTask(ctx, func(ctx context.Context) error {
		if keep {
			key, err := app.svc.archive.Save(ctx, userID, format, audio)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.stderr, "archived recording as %s\n", key)
		}
		return c.transcribe(ctx, app, transcription.TranscriptionRequest{
			Audio:    audio,
			UserID:   userID,
			Format:   format,
			Language: language,
		})
	})
}

// pollCommand resumes polling a job that was submitted earlier.
func (c *cli) pollCommand(ctx context.Context, args []string) error {
	var (
		common  commonFlags
		jobName string
		userID  string
	)
	fs := newFlagSet(c, "poll")
	fs.StringVarP(&jobName, "job", "j", "", "job name returned by a previous submission")
	fs.StringVarP(&userID, "user", "u", "", "user id the job belongs to")
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("job", jobName); err != nil {
		return err
	}
	if err := required("user", userID); err != nil {
		return err
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	app, err := newApplication(cfg, false, c.appOpts...)
	if err != nil {
		return err
	}
	return app.RunTask(ctx, func(ctx context.Context) error {
		text, err := app.svc.poller.Poll(ctx, jobName, userID)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, text)
		return nil
	})
}

// retryCommand runs the whole routine again from an archived recording.
func (c *cli) retryCommand(ctx context.Context, args []string) error {
	var (
		common commonFlags
		key    string
		userID string
	)
	fs := newFlagSet(c, "retry")
	fs.StringVarP(&key, "key", "k", "", "archive key printed by 'run --archive'")
	fs.StringVarP(&userID, "user", "u", "", "user id (default: taken from the key)")
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required("key", key); err != nil {
		return err
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	app, err := newApplication(cfg, true, c.appOpts...)
	if err != nil {
		return err
	}
	return app.RunTask(ctx, func(ctx context.Context) error {
		if userID == "" {
			owner, ok := app.svc.archive.UserID(key)
			if !ok {
				return errors.InvalidInput("user", "--user is required when the key has no user segment")
			}
			userID = owner
		}
		audio, err := app.svc.archive.Load(ctx, key)
		if err != nil {
			return err
		}
		app.Logger.Info("retrying archived recording", logger.Fields("key", key, logger.FieldUserID, userID))
		return c.transcribe(ctx, app, transcription.TranscriptionRequest{
			Audio:  audio,
			UserID: userID,
			Format: archive.Format(key),
		})
	})
}

func (c *cli) versionCommand(args []string) error {
	var short bool
	fs := newFlagSet(c, "version")
	fs.BoolVar(&short, "short", false, "print only the version")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if short {
		fmt.Fprintln(c.stdout, version.Get().Short())
		return nil
	}
	fmt.Fprintln(c.stdout, version.Get().String())
	return nil
}

func (c *cli) transcribe(ctx context.Context, app *application, req transcription.TranscriptionRequest) error {
	p, err := app.svc.manager.Get(ctx)
	if err != nil {
		return err
	}
	app.Logger.Debug("provider selected", logger.Fields("provider", p.Name()))
	resp, err := p.Transcribe(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, resp.Text)
	return nil
}

// formatOf derives the audio format from a file name.
func formatOf(file string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file), "."))
	if ext == "" {
		return jobs.DefaultFormat
	}
	return ext
}
