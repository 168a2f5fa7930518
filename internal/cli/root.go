package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/hammer-list/internal/app"
	"github.com/nhle/hammer-list/internal/model"
)

// Options carries the persistent flags.
type Options struct {
	ConfigPath  string
	DBPath      string
	LogLevel    string
	Strict      bool
	ShowMetrics bool

	// open replaces app.Open in tests.
	open func(ctx context.Context, cfg *model.AppConfig) (*app.App, error)
	a    *app.App
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&Options{})
}

func newRootCmd(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "hammer",
		Short:        "Nested checklists with shared sub-lists",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create a project and a list inside it
  hammer project add Home
  hammer list add Home Groceries

  # Add and tick off items
  hammer item add Groceries Milk
  hammer item toggle <item-id>

  # Show everything
  hammer tree
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations["noapp"] == "true" {
			return nil
		}
		cfg, err := model.LoadConfig(o.ConfigPath)
		if err != nil {
			return err
		}
		if o.DBPath != "" {
			cfg.Store.Path = o.DBPath
		}
		if o.LogLevel != "" {
			cfg.Log.Level = o.LogLevel
		}
		if cmd.Flags().Changed("strict") {
			cfg.Mutation.Strict = o.Strict
		}

		open := o.open
		if open == nil {
			open = func(ctx context.Context, cfg *model.AppConfig) (*app.App, error) {
				return app.Open(ctx, cfg)
			}
		}
		a, err := open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		o.a = a
		return nil
	}

	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if o.a == nil {
			return nil
		}
		if o.ShowMetrics {
			if err := writeMetrics(cmd, o.a); err != nil {
				return err
			}
		}
		return o.closeApp()
	}

	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", envOr("HAMMER_CONFIG", model.DefaultConfigPath()), "Path to config file")
	cmd.PersistentFlags().StringVar(&o.DBPath, "db", "", "Path to SQLite database (overrides store.path)")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&o.Strict, "strict", false, "Fail on empty input and save errors instead of ignoring them")
	cmd.PersistentFlags().BoolVar(&o.ShowMetrics, "metrics", false, "Print mutation counters to stderr after the command")

	cmd.AddCommand(newProjectCmd(o))
	cmd.AddCommand(newListCmd(o))
	cmd.AddCommand(newItemCmd(o))
	cmd.AddCommand(newTreeCmd(o))
	cmd.AddCommand(newDoctorCmd(o))
	cmd.AddCommand(newSeedCmd(o))
	cmd.AddCommand(newConfigCmd(o))

	return cmd
}

// closeApp releases the app opened for the current command, if any.
func (o *Options) closeApp() error {
	if o.a == nil {
		return nil
	}
	err := o.a.Close()
	o.a = nil
	return err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

// parseIndices converts positional arguments into display positions.
func parseIndices(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid position %q", a)
		}
		out = append(out, n)
	}
	return out, nil
}

func writeMetrics(cmd *cobra.Command, a *app.App) error {
	families, err := a.Registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(cmd.ErrOrStderr(), l)
	}
	return nil
}
