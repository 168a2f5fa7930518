package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/hammer-list/internal/hierarchy"
	"github.com/nhle/hammer-list/internal/model"
)

// ErrDoctorIssuesFound is returned by doctor --fail when errors were found.
var ErrDoctorIssuesFound = errors.New("doctor found errors")

func newTreeCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [project]",
		Short: "Print projects as an indented outline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var root *model.List
			if len(args) == 1 {
				l, err := o.a.ResolveList(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				root = l
			}
			o.a.WriteTree(cmd.OutOrStdout(), root)
			return nil
		},
	}
}

func newDoctorCmd(o *Options) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the list graph for structural problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := hierarchy.Doctor(o.a.Graph)
			for _, is := range report.Issues {
				o.a.Log.Warnf(cmd.Context(), "doctor: %s: %s", is.Code, is.Message)
				fmt.Fprintf(cmd.OutOrStdout(), "%-5s %-18s %s\n", is.Level, is.Code, is.Message)
			}
			if len(report.Issues) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
			}
			if fail && report.HasErrors() {
				return ErrDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}

func newSeedCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <list>",
		Short: "Append three sample items, one per status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := o.a.ResolveList(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := o.a.Service.SeedSample(cmd.Context(), l.ID); err != nil {
				return writeErr(cmd, err)
			}
			o.a.WriteList(cmd.OutOrStdout(), l)
			return nil
		},
	}
}

func newConfigCmd(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:         "init",
		Short:       "Write the effective configuration to the config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"noapp": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := model.LoadConfig(o.ConfigPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			if o.DBPath != "" {
				cfg.Store.Path = o.DBPath
			}
			if err := model.SaveConfig(o.ConfigPath, cfg); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), o.ConfigPath)
			return nil
		},
	})
	return cmd
}
