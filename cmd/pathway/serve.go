package main

import (
	nethttp "net/http"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/pathway"
	httpadapter "github.com/aretw0/pathway/internal/adapters/http"
	"github.com/aretw0/pathway/pkg/observability"
)

// serveConfig holds environment defaults for the introspection server;
// flags override.
type serveConfig struct {
	Addr string `env:"PATHWAY_ADDR" envDefault:":8080"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the module catalog over HTTP",
	Long: `Starts a read-only introspection server: module identities, per-module
detail, and Prometheus metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		var cfg serveConfig
		if err := env.Parse(&cfg); err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		promReg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(promReg)
		eng, err := newEngine(log,
			pathway.WithLifecycleHooks(metrics.Hooks()),
			pathway.WithLoadObserver(metrics.LoadObserver()),
		)
		if err != nil {
			return err
		}

		handler := httpadapter.NewHandler(eng.Registry(),
			promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		srv := &nethttp.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info("serving module catalog", "addr", cfg.Addr)
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides PATHWAY_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
