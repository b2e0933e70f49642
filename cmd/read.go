package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"firestige.xyz/strix/internal/inspect"
	"firestige.xyz/strix/internal/source/file"
)

var readCmd = &cobra.Command{
	Use:   "read FILE",
	Short: "Print DCCP datagrams from a pcap file",
	Long: `
Read a pcap capture file and print one line per DCCP datagram.

Examples:
  strix read capture.pcap              # terse output
  strix -vv read capture.pcap          # sequence numbers and options
  strix -q read capture.pcap           # payload byte counts only
  strix -w out.txt read capture.pcap   # write lines to out.txt
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		src, err := file.New(args[0])
		if err != nil {
			return err
		}
		out, err := newSink(cfg)
		if err != nil {
			return err
		}
		defer out.Close()

		ctx, cancel := signalContext()
		defer cancel()

		stopMetrics, err := startMetrics(ctx, cfg)
		if err != nil {
			return err
		}
		defer stopMetrics()

		err = inspect.New(src, newPrinter(cfg), out, "file").Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
