package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newProjectCmd(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Project (top-level list) commands",
	}
	cmd.AddCommand(newProjectAddCmd(o))
	cmd.AddCommand(newProjectListCmd(o))
	cmd.AddCommand(newProjectRemoveCmd(o))
	cmd.AddCommand(newProjectMoveCmd(o))
	return cmd
}

func newProjectAddCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := o.a.Service.CreateProject(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			if p == nil {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", p.ID, p.Name)
			return nil
		},
	}
}

func newProjectListCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects with item counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.a.WriteProjects(cmd.OutOrStdout())
			return nil
		},
	}
}

func newProjectRemoveCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <position>...",
		Short: "Delete projects by position, with everything they own",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := parseIndices(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := o.a.Service.DeleteProjects(cmd.Context(), idx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newProjectMoveCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <dest> <position>...",
		Short: "Move projects to a new position",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := strconv.Atoi(args[0])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid destination %q", args[0]))
			}
			idx, err := parseIndices(args[1:])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := o.a.Service.MoveProjects(cmd.Context(), idx, dest); err != nil {
				return writeErr(cmd, err)
			}
			o.a.WriteProjects(cmd.OutOrStdout())
			return nil
		},
	}
}
