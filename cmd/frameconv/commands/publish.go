package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.trai.ch/frameconv/internal/core/domain"
	"go.trai.ch/zerr"
)

// defaultPublishTopic is the topic of transformations sent from the command line.
const defaultPublishTopic = "cli." + domain.UpdateTopicSuffix

func (c *CLI) newPublishCmd() *cobra.Command {
	var (
		topic  string
		fail   int64
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "publish <from> <to> <16 numbers> | publish --fail <source-id>",
		Short: "Send a transformation, or report a failed dynamic detection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("fail") {
				if len(args) > 0 {
					return zerr.New("--fail takes no positional arguments")
				}
				source := domain.DefaultOptions().DynamicSource
				source.Prefix = prefix
				if err := c.app.PublishFailure(cmd.Context(), c.socket, source, fail); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dropped dynamic edges of %d\n", fail)
				return nil
			}

			tf, err := parseTransformation(args)
			if err != nil {
				return err
			}
			applied, err := c.app.Publish(cmd.Context(), c.socket, topic, []domain.Transformation{tf})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "applied %d\n", applied)
			return nil
		},
	}
	// Matrix values may be negative; stop flag parsing at the first positional.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVarP(&topic, "topic", "t", defaultPublishTopic, "Topic the transformation is published on")
	cmd.Flags().Int64Var(&fail, "fail", 0, "Report a failed detection of this dynamic source id")
	cmd.Flags().StringVar(&prefix, "prefix", domain.DefaultDynamicSourcePrefix, "Topic prefix of the dynamic source")
	return cmd
}

func parseTransformation(args []string) (domain.Transformation, error) {
	if len(args) != 2+domain.MatrixSize {
		return domain.Transformation{}, zerr.With(
			zerr.Wrap(domain.ErrMalformedTransformation, "expected <from> <to> and 16 matrix values"),
			"args", len(args),
		)
	}
	frames, err := domain.ParseFrames(args[:2])
	if err != nil {
		return domain.Transformation{}, err
	}

	values := make([]float64, domain.MatrixSize)
	for i, arg := range args[2:] {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return domain.Transformation{}, zerr.With(
				zerr.Wrap(domain.ErrMalformedTransformation, "not a number"),
				"value", arg,
			)
		}
		values[i] = v
	}
	m, _ := domain.MatrixFromSlice(values)
	return domain.Transformation{From: frames[0], To: frames[1], Matrix: m}, nil
}
