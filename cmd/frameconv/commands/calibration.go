package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/frameconv/internal/adapters/calibration"
	"go.trai.ch/frameconv/internal/core/domain"
)

func (c *CLI) newCalibrationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calibration <ids...>",
		Short: "Print camera calibrations as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := domain.ParseFrames(args)
			if err != nil {
				return err
			}
			calibrations, err := c.app.Calibrations(cmd.Context(), c.socket, ids)
			if err != nil {
				return err
			}
			raw, err := calibration.Encode(calibrations)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
}
