// Package cli is the lmtodo command line. With no subcommand it starts the
// terminal UI; subcommands script the same store.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nhle/lmtodo/internal/app"
	"github.com/nhle/lmtodo/internal/model"
	"github.com/nhle/lmtodo/internal/store"
)

// debugEnv turns on logging when set.
const debugEnv = "LMTODO_DEBUG"

type options struct {
	configPath string
	dbPath     string
	now        func() time.Time
}

// env is what a subcommand runs against.
type env struct {
	ctx     context.Context
	store   store.Store
	cfg     *model.AppConfig
	cfgPath string
	out     io.Writer
	flags   *pflag.FlagSet
	today   model.Date
}

// Execute runs the command line and reports a failure on stderr.
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// NewRootCmd builds the lmtodo command tree.
func NewRootCmd(version string) *cobra.Command {
	return newRootCmd(version, &options{now: time.Now})
}

func newRootCmd(version string, opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "lmtodo",
		Short: "Local task manager with projects, due dates and comments",
		Long: `lmtodo keeps projects, tasks and task comments in a local SQLite database.

Run it without arguments for the terminal UI, or use the subcommands to script it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/lmtodo/config.yaml)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database file, overrides general.db_path")

	root.AddCommand(newProjectCmd(opts))
	root.AddCommand(newTaskCmd(opts))
	root.AddCommand(newCommentCmd(opts))
	root.AddCommand(newDBCmd(opts))
	root.AddCommand(newVersionCmd(version))
	return root
}

// load reads the config file and applies the --db override.
func (o *options) load() (*model.AppConfig, string, error) {
	path := o.configPath
	if path == "" {
		path = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, "", err
	}
	if o.dbPath != "" {
		cfg.General.DBPath = app.CleanDBPath(o.dbPath)
	}
	return cfg, path, nil
}

func (o *options) openStore(path string) (store.Store, error) {
	s, err := store.NewSQLiteStore(path, store.WithClock(o.now))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// run opens the store for fn and closes it afterwards.
func (o *options) run(fn func(e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, cfgPath, err := o.load()
		if err != nil {
			return err
		}
		if os.Getenv(debugEnv) == "" {
			log.SetOutput(io.Discard)
		}
		s, err := o.openStore(cfg.General.DBPath)
		if err != nil {
			return err
		}
		defer s.Close()

		return fn(&env{
			ctx:     cmd.Context(),
			store:   s,
			cfg:     cfg,
			cfgPath: cfgPath,
			out:     cmd.OutOrStdout(),
			flags:   cmd.Flags(),
			today:   model.DateOf(o.now()),
		}, args)
	}
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lmtodo %s\n", version)
		},
	}
}
