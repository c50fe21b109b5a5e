package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/panegrid/internal/packer"
)

func newPackCmd() *cobra.Command {
	var cols int

	cmd := &cobra.Command{
		Use:   "pack WxH [WxH...]",
		Short: "Run the shelf packer on a list of sizes",
		Long: `Pack places the given sizes in order on a grid of --cols columns and
prints the position of each one. Sizes are grid units written as WxH.`,
		Example: `  panegrid pack --cols 12 6x2 6x3 4x1`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cols < 1 {
				return fmt.Errorf("--cols must be at least 1")
			}
			sizes, err := parseSizes(args)
			if err != nil {
				return err
			}
			points := packer.Pack(sizes, cols)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INDEX\tX\tY\tW\tH")
			for i, pt := range points {
				fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\n", i, pt.X, pt.Y, sizes[i].Width, sizes[i].Height)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("packed", "items", len(points), "cols", cols)
			return nil
		},
	}
	cmd.Flags().IntVar(&cols, "cols", 24, "grid column count")
	return cmd
}

// parseSizes reads WxH arguments. Both dimensions must be positive.
func parseSizes(args []string) ([]packer.Size, error) {
	sizes := make([]packer.Size, 0, len(args))
	for _, arg := range args {
		w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(arg)), "x")
		if !ok {
			return nil, fmt.Errorf("parse size %q: want WxH", arg)
		}
		width, err := strconv.Atoi(w)
		if err != nil || width < 1 {
			return nil, fmt.Errorf("parse size %q: width must be a positive integer", arg)
		}
		height, err := strconv.Atoi(h)
		if err != nil || height < 1 {
			return nil, fmt.Errorf("parse size %q: height must be a positive integer", arg)
		}
		sizes = append(sizes, packer.Size{Width: width, Height: height})
	}
	return sizes, nil
}
