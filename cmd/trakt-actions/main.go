package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/stremio-addons/trakt-actions/pkg/cache"
	"github.com/stremio-addons/trakt-actions/pkg/config"
	"github.com/stremio-addons/trakt-actions/pkg/dispatch"
	"github.com/stremio-addons/trakt-actions/pkg/format"
	"github.com/stremio-addons/trakt-actions/pkg/session"
	"github.com/stremio-addons/trakt-actions/pkg/trakt"
	"github.com/stremio-addons/trakt-actions/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" description:"config file path"`

	Listen       string `short:"l" long:"listen" env:"LISTEN" description:"listen address, overrides config"`
	BaseURL      string `long:"base-url" env:"BASE_URL" description:"externally reachable base URL, overrides config"`
	ClientID     string `long:"client-id" env:"TRAKT_CLIENT_ID" description:"trakt application client id, overrides config"`
	ClientSecret string `long:"client-secret" env:"TRAKT_CLIENT_SECRET" description:"trakt application client secret, overrides config"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	color.NoColor = opts.NoColor
	setupLog(opts.Debug, opts.ClientSecret)

	log.Printf("[INFO] starting trakt-actions version %s", revision)

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, cfg, opts.Debug); err != nil {
		log.Printf("[ERROR] server failed: %v", err)
		cancel()
		os.Exit(1)
	}
	cancel()

	log.Print("[INFO] shutdown complete")
}

// loadConfig reads the config file when given and applies CLI overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, fmt.Errorf("can't load config %s: %w", opts.Config, err)
		}
	}

	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	if opts.BaseURL != "" {
		cfg.Server.BaseURL = opts.BaseURL
	}
	if opts.ClientID != "" {
		cfg.Trakt.ClientID = opts.ClientID
	}
	if opts.ClientSecret != "" {
		cfg.Trakt.ClientSecret = opts.ClientSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// run wires all components together and blocks until shutdown
func run(ctx context.Context, cfg *config.Config, debug bool) error {
	caches := cache.NewService(cache.TTLs{
		Tokens:  cfg.Cache.TokenTTL,
		Stats:   cfg.Cache.StatsTTL,
		Ratings: cfg.Cache.RatingTTL,
	})

	traktClient := trakt.New(trakt.Opts{
		APIURL:       cfg.Trakt.APIURL,
		AuthURL:      cfg.Trakt.AuthURL,
		ClientID:     cfg.Trakt.ClientID,
		ClientSecret: cfg.Trakt.ClientSecret,
		Timeout:      cfg.Trakt.Timeout,
	})

	resolver := session.NewResolver(caches, traktClient, session.RefreshPolicy{
		Embedded:  cfg.Session.RefreshEmbedded,
		Remote:    !cfg.Session.DisableRemoteRefresh,
		Lookahead: cfg.Session.RefreshLookahead,
	})

	dispatcher := dispatch.NewDispatcher(traktClient, caches, cfg.Actions.SettleDelay)
	queue := dispatch.NewQueue(dispatcher, cfg.Actions.QueueSize, cfg.Actions.RetryAttempts, cfg.Actions.RetryDelay)
	go queue.Run(ctx)
	defer queue.Wait()

	labeler := format.New(traktClient, caches)

	srv := server.New(cfg, resolver, queue, labeler, traktClient, traktClient, caches, revision, debug)
	return srv.Run(ctx)
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = append(logOpts, lgr.Debug)
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	for _, s := range secs {
		if s != "" {
			logOpts = append(logOpts, lgr.Secret(s))
		}
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
