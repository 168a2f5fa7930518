package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/hammer-list/internal/app"
	"github.com/nhle/hammer-list/internal/model"
)

func newListCmd(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"lists"},
		Short:   "List commands",
	}
	cmd.AddCommand(newListAddCmd(o))
	cmd.AddCommand(newListNestCmd(o))
	cmd.AddCommand(newListRenameCmd(o))
	cmd.AddCommand(newListRemoveCmd(o))
	cmd.AddCommand(newListShowCmd(o))
	cmd.AddCommand(newListLinkCmd(o))
	cmd.AddCommand(newListUnlinkCmd(o))
	cmd.AddCommand(newListCopyCmd(o))
	cmd.AddCommand(newListImportCmd(o))
	return cmd
}

func newListAddCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <project> <name>",
		Short: "Create a list inside a project, behind a new item of the same name",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := o.a.ResolveList(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			l, err := o.a.Service.CreateListUnderProject(cmd.Context(), p.ID, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			if l != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", l.ID, l.Name)
			}
			return nil
		},
	}
}

func newListNestCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "nest <item> <name>",
		Short: "Create an empty list nested under an existing item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := o.a.ResolveItem(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			l, err := o.a.Service.AddChildList(cmd.Context(), it.ID, strings.Join(args[1:], " "))
			if err != nil {
				return writeErr(cmd, err)
			}
			if l != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", l.ID, l.Name)
			}
			return nil
		},
	}
}

func newListRenameCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <list> <name>",
		Short: "Rename a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := o.a.ResolveList(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := o.a.Service.RenameList(cmd.Context(), l.ID, strings.Join(args[1:], " ")); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newListRemoveCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <list>",
		Short: "Delete a list, its items and the sub-lists only they hold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := o.a.ResolveList(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := o.a.Service.DeleteList(cmd.Context(), l.ID); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newListShowCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list>",
		Short: "Show a list's items with their positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := o.a.ResolveList(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			o.a.WriteList(cmd.OutOrStdout(), l)
			return nil
		},
	}
}

func newListLinkCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "link <item> <list>",
		Short: "Nest an existing list under an item without copying it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := o.a.ResolveItem(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			l, err := o.a.ResolveList(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := o.a.Service.LinkSharedList(cmd.Context(), it.ID, l.ID); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newListUnlinkCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <item> <list>",
		Short: "Detach a list from one parent item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := o.a.ResolveItem(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			l, err := o.a.ResolveList(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := o.a.Service.UnlinkChildList(cmd.Context(), it.ID, l.ID); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newListCopyCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <target> <source>",
		Short: "Append copies of the source list's items to the target list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, source, err := resolvePair(o.a, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			copies, err := o.a.Service.CopyListAsItems(cmd.Context(), target.ID, source.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "copied %d items\n", len(copies))
			return nil
		},
	}
}

func newListImportCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <target> <source>",
		Short: "Add the source list to the target as a shared nested list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, source, err := resolvePair(o.a, args)
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := o.a.Service.ImportAsNestedList(cmd.Context(), target.ID, source.ID)
			if err != nil {
				return writeErr(cmd, err)
			}
			if it != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", it.ID, it.Title)
			}
			return nil
		},
	}
}

func resolvePair(a *app.App, args []string) (target, source *model.List, err error) {
	t, err := a.ResolveList(args[0])
	if err != nil {
		return nil, nil, err
	}
	s, err := a.ResolveList(args[1])
	if err != nil {
		return nil, nil, err
	}
	return t, s, nil
}
