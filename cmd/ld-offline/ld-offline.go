package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/kardianos/minwinsvc"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/launchdarkly/ld-offline-feature/application"
	"github.com/launchdarkly/ld-offline-feature/config"
	"github.com/launchdarkly/ld-offline-feature/internal/metrics"
	"github.com/launchdarkly/ld-offline-feature/logging"
	"github.com/launchdarkly/ld-offline-feature/store"
)

// Version is set at build time.
var Version = "DEV" //nolint:gochecknoglobals

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	opts, err := application.ReadOptions(args, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	loggers := logging.GlobalLoggers
	c, err := application.LoadConfig(opts, loggers)
	if err != nil {
		loggers.Errorf("Error loading configuration: %s", err)
		return 1
	}

	// The eval/validate/normalize commands write their results to stdout, so by default only
	// warnings and errors are logged for them.
	defaultLevel := ldlog.Warn
	if opts.Command == application.CommandWatch {
		defaultLevel = ldlog.Info
		c.Main.WatchForChanges = true
	}
	logging.InitLoggingWithLevel(c.Main.LogLevel.GetOrElse(defaultLevel))
	loggers = logging.GlobalLoggers

	if opts.Command == application.CommandWatch {
		loggers.Infof("Starting ld-offline version %s with %s",
			application.DescribeVersion(Version), opts.DescribeConfigSource())
	}

	switch opts.Command {
	case application.CommandValidate:
		err = application.RunValidate(opts.Args, os.Stdout)
	case application.CommandNormalize:
		err = application.RunNormalize(opts.Args, os.Stdout)
	default:
		err = runWithStore(opts, c, loggers)
	}
	if err != nil {
		loggers.Error(err)
		return 1
	}
	return 0
}

func runWithStore(opts application.Options, c config.Config, loggers ldlog.Loggers) error {
	var recorder store.EvaluationRecorder
	if c.Metrics.Enabled {
		m, err := metrics.NewManager(c.Metrics, logging.MakeLoggers("metrics"))
		if err != nil {
			return err
		}
		defer m.Close()
		recorder = m
	}

	s, err := application.OpenStore(c, recorder, logging.MakeLoggers("store"))
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.Command == application.CommandWatch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return application.RunWatch(ctx, s, loggers)
	}

	defaultJSON := ""
	if len(opts.Args) > 1 {
		defaultJSON = opts.Args[1]
	}
	return application.RunEval(s, opts.Args[0], defaultJSON, os.Stdout)
}
