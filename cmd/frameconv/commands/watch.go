package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/frameconv/internal/core/domain"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <from> <to> [more ids...]",
		Short: "Subscribe to a path and print every update",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := domain.ParseFrames(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return c.app.Watch(cmd.Context(), c.socket, path, func(tf domain.Transformation) error {
				printTransformation(out, tf)
				return nil
			})
		},
	}
}
