package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/frameconv/internal/adapters/tui"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the service status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := c.app.Status(cmd.Context(), c.socket)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			view := tui.NewStatusView(tui.NewRenderer(out))
			_, _ = fmt.Fprint(out, view.Render(status))
			return nil
		},
	}
}

func (c *CLI) newTopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top",
		Short: "Show a live dashboard of the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Top(cmd.Context(), c.socket, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
