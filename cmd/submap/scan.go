package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/submap/submap/pkg/config"
	"github.com/submap/submap/pkg/defaults"
	"github.com/submap/submap/pkg/duration"
	"github.com/submap/submap/pkg/httpprobe"
	"github.com/submap/submap/pkg/metrics"
	"github.com/submap/submap/pkg/output"
	"github.com/submap/submap/pkg/resolve"
	"github.com/submap/submap/pkg/runner"
	"github.com/submap/submap/pkg/tracing"
	"github.com/submap/submap/pkg/ui"
	"github.com/submap/submap/pkg/wordlist"
	"github.com/urfave/cli/v2"
)

// loadConfig layers flags over the config file over the defaults.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	}

	setString := func(name string, dst *string) {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	setInt := func(name string, dst *int) {
		if c.IsSet(name) {
			*dst = c.Int(name)
		}
	}
	setBool := func(name string, dst *bool) {
		if c.IsSet(name) {
			*dst = c.Bool(name)
		}
	}

	setString("domain", &cfg.Domain)
	setString("wordlist", &cfg.Wordlist)
	setInt("threads", &cfg.Concurrency)
	setInt("timeout", &cfg.TimeoutSeconds)
	setString("output", &cfg.Output)
	setBool("verbose", &cfg.Verbose)
	setBool("resolve-ip", &cfg.ResolveIP)
	setBool("check-http", &cfg.CheckHTTP)
	setString("user-agent", &cfg.UserAgent)
	setString("proxy", &cfg.Proxy)
	setBool("no-banner", &cfg.NoBanner)
	setBool("no-color", &cfg.NoColor)
	setInt("rate-limit", &cfg.RateLimit)
	setBool("wildcard-filter", &cfg.WildcardFilter)
	setString("metrics-addr", &cfg.MetricsAddr)
	setString("otel-endpoint", &cfg.OTelEndpoint)
	setBool("otel-insecure", &cfg.OTelInsecure)
	if c.IsSet("resolvers") {
		cfg.Resolvers = splitList(c.StringSlice("resolvers"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList flattens comma separated values inside repeated flags.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadWordlist(path string) (*wordlist.Wordlist, error) {
	if path == "" {
		return wordlist.Builtin(), nil
	}
	return wordlist.Load(path)
}

func scan(c *cli.Context, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("[-] %v", err), defaults.ExitUserError)
	}

	runID := uuid.NewString()
	logger := newLogger(stderr, cfg.Verbose).With(slog.String("run_id", runID))
	printer := ui.New(stdout, ui.Options{
		NoColor:     cfg.NoColor,
		ShowRecords: cfg.ResolveIP,
		Verbose:     cfg.Verbose,
	})

	words, err := loadWordlist(cfg.Wordlist)
	if err != nil {
		switch {
		case errors.Is(err, wordlist.ErrNotFound):
			printer.Error("Wordlist file not found: %s", cfg.Wordlist)
		case errors.Is(err, wordlist.ErrEmpty):
			printer.Error("Empty wordlist")
		default:
			printer.Error("Error loading wordlist: %v", err)
		}
		return cli.Exit("", defaults.ExitUserError)
	}

	if !cfg.NoBanner {
		printer.Banner(ui.BannerInfo{
			Domain:       cfg.Domain,
			WordlistSize: words.Size(),
			Threads:      cfg.Concurrency,
			Timeout:      cfg.Timeout(),
		})
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			printer.Warning("Interrupt received, shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	var collector *metrics.Collector
	if cfg.MetricsAddr != "" {
		if collector, err = metrics.New(); err != nil {
			return cli.Exit(fmt.Sprintf("[-] %v", err), defaults.ExitInternalError)
		}
		if err := collector.Serve(cfg.MetricsAddr, logger); err != nil {
			return cli.Exit(fmt.Sprintf("[-] %v", err), defaults.ExitUserError)
		}
		defer collector.Close()
		printer.ConfigLine("Metrics", "http://"+collector.Addr()+defaults.MetricsPath)
	}

	tp, err := tracing.Setup(ctx, tracing.Options{
		Endpoint: cfg.OTelEndpoint,
		Insecure: cfg.OTelInsecure,
		RunID:    runID,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("[-] %v", err), defaults.ExitUserError)
	}
	defer func() {
		sctx, scancel := context.WithTimeout(context.Background(), duration.TracerShutdown)
		defer scancel()
		if err := tp.Shutdown(sctx); err != nil {
			logger.Warn("trace exporter shutdown", slog.String("error", err.Error()))
		}
	}()

	resolver, err := resolve.New(resolve.Config{
		Servers: cfg.Resolvers,
		Timeout: cfg.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("[-] %v", err), defaults.ExitUserError)
	}
	logger.Debug("resolvers", slog.Any("servers", resolver.Servers()))

	// Stays a nil interface unless HTTP checking is on.
	var prober runner.HTTPProber
	if cfg.CheckHTTP {
		p, err := httpprobe.New(httpprobe.Config{
			Timeout:   cfg.Timeout(),
			UserAgent: cfg.UserAgent,
			Proxy:     cfg.Proxy,
			Logger:    logger,
			OnAttempt: collector.ObserveHTTP,
		})
		if err != nil {
			return cli.Exit(fmt.Sprintf("[-] %v", err), defaults.ExitUserError)
		}
		defer p.Close()
		prober = p
	}

	r, err := runner.New(runner.Config{
		Domain:         cfg.Domain,
		Concurrency:    cfg.Concurrency,
		CheckHTTP:      cfg.CheckHTTP,
		RateLimit:      cfg.RateLimit,
		WildcardFilter: cfg.WildcardFilter,
	}, resolver, prober,
		runner.WithLogger(logger),
		runner.WithMetrics(collector),
		runner.WithTracer(tp.Tracer()),
		runner.WithOnProgress(func(p runner.Progress) { printer.Progress(p.Completed, p.Total) }),
		runner.WithOnFound(func(d runner.Discovery) { printer.Found(d.Name, d.Result.Records) }),
		runner.WithOnHTTP(printer.HTTP),
	)
	if err != nil {
		return cli.Exit(fmt.Sprintf("[-] %v", err), defaults.ExitInternalError)
	}

	logger.Info("starting enumeration",
		slog.String("domain", cfg.Domain),
		slog.Int("candidates", words.Size()),
		slog.Int("threads", cfg.Concurrency))
	printer.Info("Starting DNS brute force enumeration...")

	start := time.Now()
	set, err := r.Run(ctx, words.Words)
	printer.EndProgress()
	if err != nil {
		printer.Error("Error during enumeration: %v", err)
		return cli.Exit("", defaults.ExitInternalError)
	}

	stats := r.Stats()
	if stats.Interrupted {
		printer.Warning("Enumeration interrupted by user")
	}

	records := set.Records()
	printer.PrintSummary(ui.Summary{
		Domain:       cfg.Domain,
		WordlistSize: words.Size(),
		Records:      records,
		Elapsed:      time.Since(start),
		Interrupted:  stats.Interrupted,
	})

	if cfg.Output != "" && len(records) > 0 {
		report := output.Report{Domain: cfg.Domain, CheckHTTP: cfg.CheckHTTP, Records: records}
		if err := output.Save(cfg.Output, report); err != nil {
			printer.Error("Error saving results: %v", err)
		} else {
			printer.Success("Results saved to %s", cfg.Output)
		}
	}

	logger.Info("enumeration finished",
		slog.Int64("completed", stats.Completed),
		slog.Int64("found", stats.Found),
		slog.Int64("http_alive", stats.HTTPAlive),
		slog.Int64("wildcards", stats.Wildcards),
		slog.Bool("interrupted", stats.Interrupted),
		slog.Duration("elapsed", stats.Duration))
	return nil
}
