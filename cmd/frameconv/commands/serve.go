package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/frameconv/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	var opts app.ServeOptions
	var logFormat string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the frame conversion service until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.app.SetLogFormat(logFormat)
			// --listen wins over the persistent --socket flag.
			if opts.Listen == "" && cmd.Flags().Changed("socket") {
				opts.Listen = c.socket
			}
			return c.app.Serve(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path of the configuration file (default frameconv.yaml)")
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "Socket to listen on, overrides the configuration")
	cmd.Flags().StringVar(&opts.CalibrationsPath, "calibrations", "", "Calibration directory, overrides the configuration")
	cmd.Flags().DurationVar(&opts.Throttle, "throttle", 0, "Interval between two publication flushes")
	cmd.Flags().BoolVar(&opts.NoWatch, "no-watch", false, "Do not reload calibrations when their files change")
	cmd.Flags().StringVar(&logFormat, "log-format", "auto", "Log format: auto, pretty, or json")
	return cmd
}
