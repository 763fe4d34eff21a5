// snmplited is the agent daemon: it serves the management protocol over TCP
// from a fixed seed store, optionally extended from a TOML config file.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/danmuck/snmplite/internal/agent"
	"github.com/danmuck/snmplite/internal/config"
	"github.com/danmuck/snmplite/internal/mib"
	"github.com/danmuck/snmplite/internal/observability"
)

var (
	cfgFile    string
	listenAddr string
	version    = "dev"
)

var rootCmd = &cobra.Command{
	Use:     "snmplited",
	Version: version,
	Short:   "Simplified SNMP-style management agent",
	Long: `snmplited serves a store of named, typed, permissioned values over a
binary request/response protocol carried on persistent TCP connections.`,
	Example: `  # Serve the built-in seed store on the default port
  snmplited

  # Serve with a configuration file
  snmplited --config /etc/snmplite/agent.toml

  # Override the listen address
  snmplited --listen :2161`,
	RunE: runAgent,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return fmt.Errorf("--config is required for validate")
		}
		cfg, err := config.LoadAgentConfig(cfgFile)
		if err != nil {
			return err
		}
		if _, err := config.BuildEntries(cfg); err != nil {
			return err
		}
		fmt.Printf("%s: configuration is valid\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to TOML config file")
	rootCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")
	rootCmd.AddCommand(validateCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	observability.InitLogger("snmplited")

	cfg := config.DefaultAgentConfig()
	if cfgFile != "" {
		loaded, err := config.LoadAgentConfig(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if listenAddr != "" {
		cfg.ListenAddr = listenAddr
	}

	entries, err := config.BuildEntries(cfg)
	if err != nil {
		return err
	}
	store, err := mib.NewStore(entries)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr)
	}

	srv := agent.NewServer(cfg.ListenAddr, cfg.IdleTimeout.Std(), store)
	if err := srv.Listen(); err != nil {
		return err
	}
	return srv.Serve(ctx)
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.MetricsHandler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info().Str("addr", addr).Msg("metrics listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("metrics server failed")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
