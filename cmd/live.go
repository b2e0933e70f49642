package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"

	"firestige.xyz/strix/internal/inspect"
	"firestige.xyz/strix/internal/source/afpacket"
)

var (
	liveDevice string
	liveFilter string
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Print DCCP datagrams captured from a network interface",
	Long: `
Capture live traffic from an interface through AF_PACKET and print one line
per DCCP datagram. Requires CAP_NET_RAW.

Examples:
  strix live -i eth0
  strix -v live -i eth0 -f "host 10.0.0.1 and ip proto 33"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if liveDevice != "" {
			cfg.Capture.Device = liveDevice
		}
		if cmd.Flags().Changed("filter") {
			cfg.Capture.Filter = liveFilter
		}
		if cfg.Capture.Device == "" {
			return fmt.Errorf("no capture device: set -i or capture.device in the config")
		}

		// The capture section and the source config share field tags; decode
		// one into the other instead of copying field by field.
		var afCfg afpacket.Config
		if err := mapstructure.Decode(cfg.Capture, &afCfg); err != nil {
			return err
		}
		src, err := afpacket.New(afCfg)
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

		err = inspect.New(src, newPrinter(cfg), out, cfg.Capture.Device).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	liveCmd.Flags().StringVarP(&liveDevice, "interface", "i", "", "interface to capture from")
	liveCmd.Flags().StringVarP(&liveFilter, "filter", "f", "", "BPF filter expression")
	rootCmd.AddCommand(liveCmd)
}
