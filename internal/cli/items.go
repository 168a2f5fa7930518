package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/hammer-list/internal/app"
)

func newItemCmd(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"items"},
		Short:   "Item commands",
	}
	cmd.AddCommand(newItemAddCmd(o))
	cmd.AddCommand(newItemRemoveCmd(o))
	cmd.AddCommand(newItemMoveCmd(o))
	cmd.AddCommand(newItemToggleCmd(o))
	cmd.AddCommand(newItemRenameCmd(o))
	cmd.AddCommand(newItemListsCmd(o))
	return cmd
}

func newItemAddCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add <list> <title>",
		Short: "Append an item to a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := o.a.ResolveList(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			it, err := o.a.Service.AddItem(cmd.Context(), l.ID, strings.Join(args[1:], " "))
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

func newItemRemoveCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <list> <position>...",
		Short: "Delete items by position",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := o.a.ResolveList(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			idx, err := parseIndices(args[1:])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := o.a.Service.DeleteItems(cmd.Context(), l.ID, idx); err != nil {
				return writeErr(cmd, err)
			}
			o.a.WriteList(cmd.OutOrStdout(), l)
			return nil
		},
	}
}

func newItemMoveCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <list> <dest> <position>...",
		Short: "Move items to a new position",
		Long: strings.TrimSpace(`
Move the items at the given positions so they land in front of the item
currently at <dest>. Use the list length as <dest> to move to the end.
`),
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := o.a.ResolveList(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			dest, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid destination %q", args[1]))
			}
			idx, err := parseIndices(args[2:])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := o.a.Service.MoveItems(cmd.Context(), l.ID, idx, dest); err != nil {
				return writeErr(cmd, err)
			}
			o.a.WriteList(cmd.OutOrStdout(), l)
			return nil
		},
	}
}

func newItemToggleCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <item>...",
		Short: "Advance items to their next status",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, ref := range args {
				it, err := o.a.ResolveItem(ref)
				if err != nil {
					return writeErr(cmd, err)
				}
				if _, err := o.a.Service.ToggleStatus(cmd.Context(), it.ID); err != nil {
					return writeErr(cmd, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s\n", app.StatusMark(it.Status), app.ShortID(it.ID), it.Title)
			}
			return nil
		},
	}
}

func newItemRenameCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <item> <title>",
		Short: "Change an item's title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := o.a.ResolveItem(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := o.a.Service.RenameItem(cmd.Context(), it.ID, strings.Join(args[1:], " ")); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

func newItemListsCmd(o *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "lists <item>",
		Short: "Show the lists nested under an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := o.a.ResolveItem(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, l := range o.a.Graph.ChildLists(it.ID) {
				o.a.WriteList(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}
}
