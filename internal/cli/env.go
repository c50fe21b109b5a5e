package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/panegrid/internal/board"
	"github.com/five82/panegrid/internal/persist"
)

const remoteTimeout = 5 * time.Second

func newEnvCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage saved environments",
		Long: `Environments hold saved pane positions and views. Fork and delete act on
the local store and are mirrored to the backend unless --local is set.`,
	}
	cmd.AddCommand(newEnvListCmd(flags))
	cmd.AddCommand(newEnvForkCmd(flags))
	cmd.AddCommand(newEnvDeleteCmd(flags))
	return cmd
}

func newEnvListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List environments with saved state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStore(flags)
			if err != nil {
				return err
			}
			defer closeStore(store)

			envs, err := store.Envs()
			if err != nil {
				return err
			}
			for _, env := range envs {
				fmt.Fprintln(cmd.OutOrStdout(), env)
			}
			return nil
		},
	}
}

func newEnvForkCmd(flags *rootFlags) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "fork SRC DST",
		Short: "Copy an environment's positions and views",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			cfg, store, err := openStore(flags)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if err := store.ForkEnv(src, dst); err != nil {
				switch {
				case errors.Is(err, persist.ErrNotFound):
					return fmt.Errorf("environment %q has no saved state", src)
				case errors.Is(err, persist.ErrExists):
					return fmt.Errorf("environment %q already exists", dst)
				}
				return err
			}

			remote, err := remoteClient(cfg, local)
			if err != nil {
				return err
			}
			mirror(cmd.Context(), remote, "fork env", func(ctx context.Context) error {
				return remote.ForkEnv(ctx, src, dst)
			})
			fmt.Fprintf(cmd.OutOrStdout(), "forked %s to %s\n", src, dst)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "skip the backend")
	return cmd
}

func newEnvDeleteCmd(flags *rootFlags) *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "delete ENV",
		Short: "Remove an environment's saved state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env := args[0]
			cfg, store, err := openStore(flags)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if err := store.DeleteEnv(env); err != nil {
				return err
			}

			remote, err := remoteClient(cfg, local)
			if err != nil {
				return err
			}
			mirror(cmd.Context(), remote, "delete env", func(ctx context.Context) error {
				return remote.DeleteEnv(ctx, env)
			})
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", env)
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "skip the backend")
	return cmd
}

// mirror runs a backend call. Failures are warnings: the local store is the
// source of truth for the client.
func mirror(ctx context.Context, remote board.EventSource, op string, call func(ctx context.Context) error) {
	if remote == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()
	if err := call(ctx); err != nil {
		loggerFromContext(ctx).Warn("backend not updated", "op", op, "err", err)
	}
}
