// Command transcribe uploads a recording to the transcription job API and
// prints the transcript once the job completes.
//
// Usage:
//
//	transcribe run --file talk.webm --user user-1 [--archive]
//	transcribe poll --job job-1 --user user-1
//	transcribe retry --key recordings/user-1/20240309T130507Z.webm
//	transcribe version
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kbukum/transcribekit/bootstrap"
	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/logger"
)

const usage = `Usage: transcribe <command> [flags]

Commands:
  run      upload a recording and wait for its transcript
  poll     resume waiting for an already submitted job
  retry    transcribe an archived recording again
  version  print build information

Run 'transcribe <command> --help' for the flags of a command.
`

// cli holds the process streams so commands can be run from tests.
type cli struct {
	stdout  io.Writer
	stderr  io.Writer
	appOpts []bootstrap.Option
}

func main() {
	c := &cli{stdout: os.Stdout, stderr: os.Stderr}
	if err := c.run(context.Background(), os.Args[1:]); err != nil {
		if !stderrors.Is(err, pflag.ErrHelp) {
			logger.Error("transcribe failed", exitFields(err))
			os.Exit(1)
		}
	}
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.stderr, usage)
		return errMissingCommand
	}
	switch args[0] {
	case "run":
		return c.runCommand(ctx, args[1:])
	case "poll":
		return c.pollCommand(ctx, args[1:])
	case "retry":
		return c.retryCommand(ctx, args[1:])
	case "version", "--version":
		return c.versionCommand(args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(c.stdout, usage)
		return nil
	default:
		fmt.Fprint(c.stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

var errMissingCommand = stderrors.New("missing command")

// exitFields describes a fatal error for the log, adding the code and
// details of an AppError so a failed or timed out job can be told apart.
func exitFields(err error) map[string]any {
	fields := logger.ErrorFields("transcribe", err)
	if appErr, ok := errors.AsAppError(err); ok {
		fields["code"] = string(appErr.Code)
		fields["retryable"] = appErr.Retryable
		for k, v := range appErr.Details {
			fields[k] = v
		}
	}
	return fields
}
