// Copyright 2024 trim21 <trim21.me@gmail.com>
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trim21/errgo"
	"go.uber.org/automaxprocs/maxprocs"
	"gopkg.in/natefinch/lumberjack.v2"

	"safecopy/internal/config"
	"safecopy/internal/effect"
	"safecopy/internal/pkg/flowrate"
	"safecopy/internal/transfer"
	"safecopy/internal/version"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

var errUsage = errors.New("usage: safecopy [flags] <source> <destination>")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := newFlagSet(stderr)

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}

		printError(stderr, err)
		return exitUsage
	}

	v := viper.New()
	v.SetEnvPrefix("SAFECOPY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	lo.Must0(v.BindPFlags(flags), "failed to parse combine argument with env")

	if v.GetBool("version") {
		_, _ = fmt.Fprintln(stdout, version.Print())
		if info, ok := debug.ReadBuildInfo(); ok && v.GetBool("build-info") {
			_, _ = fmt.Fprint(stdout, version.FormatBuildInfo(info))
		}
		return exitOK
	}

	source, destination, err := parseArgs(flags.Args())
	if err != nil {
		printError(stderr, err)
		return exitUsage
	}

	if err := setupLogger(v, stderr); err != nil {
		printError(stderr, err)
		return exitUsage
	}

	cfg, err := loadConfig(v)
	if err != nil {
		printError(stderr, err)
		return exitFailure
	}

	e, closeEffect, err := newEffect(cfg.Transfer)
	if err != nil {
		printError(stderr, err)
		return exitFailure
	}
	defer closeEffect()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Transfer.Timeout.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Transfer.Timeout.Duration)
		defer cancel()
	}

	var opts transfer.Options
	var progress conc.WaitGroup
	done := make(chan struct{})

	if v.GetBool("progress") {
		monitor := flowrate.New(time.Second/4, time.Second)
		if s, err := os.Stat(source); err == nil {
			monitor.SetTransferSize(s.Size())
		}

		opts.Monitor = monitor
		progress.Go(func() {
			reportProgress(stderr, monitor, cfg.Transfer.ProgressInterval.Duration, done)
		})
	}

	log.Debug().Str("effect", e.Name()).Msgf("copy %s to %s", source, destination)

	out := transfer.Run(ctx, e, source, destination, opts)

	close(done)
	progress.Wait()

	switch out.Status {
	case effect.Succeeded:
		_, _ = fmt.Fprintf(stdout, "%d bytes copied from %s to %s\n", out.Value, source, destination)
		return exitOK
	case effect.Canceled:
		printError(stderr, errors.New("interrupted"))
		return exitInterrupted
	default:
		printError(stderr, out.Err)
		return exitFailure
	}
}

func newFlagSet(stderr io.Writer) *pflag.FlagSet {
	def := config.Default()

	flags := pflag.NewFlagSet("safecopy", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.String("config-file", "", "path to config file")

	flags.String("executor", def.Transfer.Executor, "how blocking IO is run, 'direct' or 'pool'")
	flags.Int("pool-size", def.Transfer.PoolSize, "worker count of 'pool' executor")
	flags.Duration("timeout", def.Transfer.Timeout.Duration, "cancel the copy after this duration, 0 to disable")
	flags.Bool("progress", false, "print transfer progress to stderr")

	flags.Bool("log-json", false, "log as json format")
	flags.String("log-level", "error", "log level")
	flags.String("log-file", "", "also write log to this file, rotated")

	flags.Bool("version", false, "print version and exit")
	flags.Bool("build-info", false, "with --version, also print module dependencies")

	flags.Usage = func() {
		_, _ = fmt.Fprintln(stderr, errUsage.Error())
		_, _ = fmt.Fprintln(stderr)
		flags.PrintDefaults()
		_, _ = fmt.Fprintln(stderr, "\nNote: command arguments will override config file, but won't change config file.")
	}

	return flags
}

func parseArgs(args []string) (source, destination string, err error) {
	if len(args) != 2 {
		return "", "", errUsage
	}

	return args[0], args[1], nil
}

func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, color.RedString("error:"), err)
}

func loadConfig(v *viper.Viper) (config.Config, error) {
	cfg, err := config.LoadFromFile(v.GetString("config-file"))
	if err != nil {
		return cfg, errgo.Wrap(err, "failed to load config")
	}

	if v.IsSet("executor") {
		cfg.Transfer.Executor = v.GetString("executor")
	}

	if v.IsSet("pool-size") {
		cfg.Transfer.PoolSize = v.GetInt("pool-size")
	}

	if v.IsSet("timeout") {
		timeout := v.GetDuration("timeout")
		if timeout < 0 {
			return cfg, fmt.Errorf("invalid timeout %s, must not be negative", timeout)
		}
		cfg.Transfer.Timeout.Duration = timeout
	}

	return cfg, cfg.Validate()
}

func newEffect(cfg config.Transfer) (effect.Effect, func(), error) {
	if cfg.Executor != config.ExecutorPool {
		return effect.Direct{}, func() {}, nil
	}

	if runtime.GOOS == "linux" {
		if _, err := maxprocs.Set(maxprocs.Logger(func(format string, a ...any) {
			log.Debug().Msgf(format, a...)
		})); err != nil {
			log.Warn().Err(err).Msg("failed to set GOMAXPROCS automatically, consider to set env manually if you are running with cgroup")
		}
	}

	p, err := effect.NewPool(cfg.PoolSize)
	if err != nil {
		return nil, nil, err
	}

	return p, func() { p.Close(5 * time.Second) }, nil
}

// reportProgress prints the monitor status every interval, and once more when done is closed.
func reportProgress(w io.Writer, monitor *flowrate.Monitor, interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			printStatus(w, monitor.Status())
			return
		case <-ticker.C:
			printStatus(w, monitor.Status())
		}
	}
}

func printStatus(w io.Writer, s flowrate.Status) {
	line := fmt.Sprintf("%s copied, %s/s", humanize.IBytes(uint64(s.Bytes)), humanize.IBytes(uint64(s.CurRate)))
	if s.Progress > 0 {
		line += fmt.Sprintf(", %s, %s left", s.Progress, s.TimeRem)
	}
	_, _ = fmt.Fprintln(w, line)
}

func parseLogLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}

	return zerolog.NoLevel, fmt.Errorf("unknown log level %q, only trace/debug/info/warn/error is allowed", s)
}

// stdout is reserved for the result line, logs go to stderr.
func setupLogger(v *viper.Viper, stderr io.Writer) error {
	logLevel, err := parseLogLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}

	var w = stderr

	if !v.GetBool("log-json") {
		w = zerolog.ConsoleWriter{Out: stderr, NoColor: color.NoColor}
	}

	if logFile := v.GetString("log-file"); logFile != "" {
		rotation := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, //days
		}
		w = zerolog.MultiLevelWriter(rotation, w)
	}

	log.Logger = log.Output(w).Level(logLevel)

	return nil
}
