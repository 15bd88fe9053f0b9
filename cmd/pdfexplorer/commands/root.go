package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/pdfexplorer/internal/config"
	"github.com/kpauljoseph/pdfexplorer/internal/pdf"
	"github.com/kpauljoseph/pdfexplorer/internal/relay"
	"github.com/kpauljoseph/pdfexplorer/pkg/logger"
)

type globalOptions struct {
	configPath  string
	verbose     bool
	debug       bool
	extractText bool
	metricsAddr string
}

// runtimeEnv is everything a subcommand needs once flags are parsed.
type runtimeEnv struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry
}

func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "pdfexplorer",
		Short:        "Parse PDF files and report their structure",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultConfigFileName, "path to config file")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable verbose logging")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug mode with trace logging")
	flags.BoolVar(&opts.extractText, "extract-text", false, "extract page text with MuPDF (overrides config)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides config)")

	root.AddCommand(
		newExploreCommand(opts),
		newScanCommand(opts),
		newRoundTripCommand(opts),
		newVersionCommand(),
	)
	return root
}

func (o *globalOptions) setup(cmd *cobra.Command) (*runtimeEnv, error) {
	log := logger.New(
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithPrefix("[pdfexplorer] "),
	)
	log.SetVerbose(o.verbose || o.debug)
	if o.debug {
		log.SetLevel(logger.LevelTrace)
	}

	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOrDefault(o.configPath)
	}
	if err != nil {
		return nil, err
	}

	if o.extractText {
		cfg.Explore.ExtractText = true
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}

	log.Debug("Config: inbox=%d validate=%v extract_text=%v",
		cfg.Worker.InboxSize, cfg.ShouldValidate(), cfg.Explore.ExtractText)

	return &runtimeEnv{cfg: cfg, log: log, registry: prometheus.NewRegistry()}, nil
}

func (e *runtimeEnv) explorer() *pdf.Explorer {
	return pdf.NewExplorer(pdf.Options{
		Validate:    e.cfg.ShouldValidate(),
		ExtractText: e.cfg.Explore.ExtractText,
		MaxObjects:  e.cfg.Explore.MaxObjects,
	}, e.log.Named("[pdf] "))
}

func (e *runtimeEnv) relay() *relay.Relay {
	return relay.New(
		e.explorer(),
		e.log.Named("[relay] "),
		relay.WithInboxSize(e.cfg.Worker.InboxSize),
		relay.WithRegisterer(e.registry),
	)
}

// serveMetrics exposes the registry until the returned stop func is called.
func (e *runtimeEnv) serveMetrics() (stop func()) {
	if e.cfg.Metrics.Addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: e.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		e.log.Info("Serving metrics on %s", e.cfg.Metrics.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.log.Error("Metrics server failed: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
