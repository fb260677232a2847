package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/frameconv/internal/core/ports"
)

func (c *CLI) newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <from> <to> [more ids...]",
		Short: "Print the route and the transformation between frames",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := domain.ParseFrames(args)
			if err != nil {
				return err
			}
			lookup, err := c.app.Lookup(cmd.Context(), c.socket, path)
			if err != nil {
				return err
			}
			printLookup(cmd.OutOrStdout(), lookup)
			return nil
		},
	}
}

func (c *CLI) newResolveCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "resolve <from> <to> [more ids...]",
		Short: "Resolve a path offline from a calibration directory",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := domain.ParseFrames(args)
			if err != nil {
				return err
			}
			lookup, err := c.app.Resolve(dir, path)
			if err != nil {
				return err
			}
			printLookup(cmd.OutOrStdout(), lookup)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "calibrations", domain.DefaultCalibrationsDir, "Calibration directory")
	return cmd
}

func printLookup(w io.Writer, lookup *ports.Lookup) {
	_, _ = fmt.Fprintf(w, "route: %s\n", lookup.Route)
	_, _ = fmt.Fprintln(w, lookup.Transformation.Matrix)
}

func printTransformation(w io.Writer, tf domain.Transformation) {
	_, _ = fmt.Fprintf(w, "%d -> %d\n", tf.From, tf.To)
	_, _ = fmt.Fprintln(w, tf.Matrix)
}
