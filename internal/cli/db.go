package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/lmtodo/internal/app"
)

func newDBCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Show or relocate the database file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the database path in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.CleanDBPath(cfg.General.DBPath))
			return nil
		},
	})

	var fresh bool
	move := &cobra.Command{
		Use:   "move NEW_PATH",
		Short: "Move the database file and update the config",
		Long: `Move the database file to NEW_PATH and point the config file at it.

With --fresh an empty database is created at NEW_PATH instead and the old
file is left where it is. NEW_PATH must not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: opts.run(func(e *env, args []string) error {
			s, cfg, err := app.RelocateDatabase(e.store, e.cfg, e.cfgPath, args[0], fresh, opts.openStore)
			if s != nil && s != e.store {
				defer s.Close()
			}
			if err != nil {
				return err
			}
			verb := "Moved database to"
			if fresh {
				verb = "Started a new database at"
			}
			fmt.Fprintf(e.out, "%s %s\n", verb, cfg.General.DBPath)
			return nil
		}),
	}
	move.Flags().BoolVar(&fresh, "fresh", false, "start an empty database instead of moving the current one")
	cmd.AddCommand(move)

	return cmd
}
