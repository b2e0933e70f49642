// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"firestige.xyz/strix/internal/config"
	"firestige.xyz/strix/internal/dccp"
	"firestige.xyz/strix/internal/log"
	"firestige.xyz/strix/internal/metrics"
	"firestige.xyz/strix/internal/resolve"
	"firestige.xyz/strix/internal/sink"
)

var (
	// Global flags
	configFile   string
	verbosity    int
	quiet        bool
	resolveNames bool
	outputPath   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "strix",
	Short: "Strix - passive DCCP traffic inspector",
	Long: `Strix passively inspects DCCP (RFC 4340) traffic and prints one summary
line per datagram, from a pcap file or a live interface.

Verbosity levels:
  (none)  addresses, packet type, and type-specific fields
  -v      adds CCVal/CsCov and checksum verification
  -vv     adds the sequence number and the option list`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase output detail (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q",
		false, "print only the payload byte count per datagram")
	rootCmd.PersistentFlags().BoolVarP(&resolveNames, "resolve", "n",
		false, "resolve addresses to names via reverse DNS")
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "w", "",
		"write datagram lines to file instead of stdout")
}

// loadConfig loads the config file and layers the command-line flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbosity = verbosity
	}
	if cmd.Flags().Changed("quiet") {
		cfg.Quiet = quiet
	}
	if cmd.Flags().Changed("resolve") {
		cfg.ResolveNames = resolveNames
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Path = outputPath
	}

	log.Init(&cfg.Log)
	return cfg, nil
}

// newPrinter builds the datagram printer for the effective config.
func newPrinter(cfg *config.Config) *dccp.Printer {
	var resolver resolve.Resolver = resolve.Literal{}
	if cfg.ResolveNames {
		resolver = resolve.NewDNS(cfg.ResolveTimeoutDuration())
	}
	return &dccp.Printer{
		Verbosity: cfg.Verbosity,
		Quiet:     cfg.Quiet,
		Resolver:  resolver,
	}
}

// newSink opens the datagram line destination.
func newSink(cfg *config.Config) (sink.Sink, error) {
	if cfg.Output.Path == "" {
		return sink.NewConsole(), nil
	}
	f, err := os.Create(cfg.Output.Path)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return sink.NewFile(f), nil
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// startMetrics starts the Prometheus endpoint when enabled. The returned
// stop function is safe to call either way.
func startMetrics(ctx context.Context, cfg *config.Config) (func(), error) {
	if !cfg.Metrics.Enabled {
		return func() {}, nil
	}
	srv := metrics.NewServer(cfg.Metrics.Listen, cfg.Metrics.Path)
	if err := srv.Start(ctx); err != nil {
		return nil, err
	}
	return func() { srv.Stop(context.Background()) }, nil
}
