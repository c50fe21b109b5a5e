package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newViewsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "views ENV",
		Short: "List an environment's saved views",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(flags)
			if err != nil {
				return err
			}
			defer closeStore(store)

			views, err := store.Views(args[0])
			if err != nil {
				return err
			}
			names := make([]string, 0, len(views))
			for name := range views {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VIEW\tPANES")
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%d\n", name, len(views[name].Entries))
			}
			return w.Flush()
		},
	}
}
