package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/nhle/hammer-list/internal/model"
)

// StatusMark renders a status as a checkbox.
func StatusMark(s model.Status) string {
	switch s {
	case model.StatusInProgress:
		return "[~]"
	case model.StatusCompleted:
		return "[x]"
	default:
		return "[ ]"
	}
}

// WriteProjects prints one line per project with its aggregate counts.
func (a *App) WriteProjects(w io.Writer) {
	for i, p := range a.Graph.Projects() {
		c := a.Nav.DescendantCounts(p.ID)
		fmt.Fprintf(w, "%2d  %s  %s  (%d/%d done, %d lists)\n",
			i, ShortID(p.ID), p.Name, c.Completed, c.Items, c.Lists)
	}
}

// WriteList prints a list's path and its items with their positions.
func (a *App) WriteList(w io.Writer, l *model.List) {
	var names []string
	for _, p := range a.Nav.Path(l.ID) {
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		names = []string{l.Name}
	}
	header := strings.Join(names, " / ")
	if l.IsShared() {
		header += fmt.Sprintf("  (shared by %d items)", len(l.ParentItemIDs))
	}
	fmt.Fprintf(w, "%s  %s\n", ShortID(l.ID), header)

	for i, it := range a.Graph.Items(l.ID) {
		suffix := ""
		if it.HasChildLists() {
			n := len(it.ChildListIDs)
			suffix = fmt.Sprintf("  +%d list", n)
			if n > 1 {
				suffix += "s"
			}
		}
		fmt.Fprintf(w, "%2d  %s %s  %s%s\n", i, StatusMark(it.Status), ShortID(it.ID), it.Title, suffix)
	}
}

// WriteTree prints every project, or only root when it is non-nil, as an
// indented outline. Shared lists appear under each parent.
func (a *App) WriteTree(w io.Writer, root *model.List) {
	roots := a.Graph.Projects()
	if root != nil {
		roots = []*model.List{root}
	}
	for _, p := range roots {
		fmt.Fprintf(w, "%s  %s\n", ShortID(p.ID), p.Name)
		a.writeItems(w, p, 1, map[string]bool{p.ID: true})
	}
}

func (a *App) writeItems(w io.Writer, l *model.List, depth int, onPath map[string]bool) {
	indent := strings.Repeat("  ", depth)
	for _, it := range a.Graph.Items(l.ID) {
		fmt.Fprintf(w, "%s%s %s  %s\n", indent, StatusMark(it.Status), ShortID(it.ID), it.Title)
		for _, child := range a.Graph.ChildLists(it.ID) {
			mark := ""
			if child.IsShared() {
				mark = " (shared)"
			}
			if onPath[child.ID] {
				fmt.Fprintf(w, "%s  > %s  %s (cycle)\n", indent, ShortID(child.ID), child.Name)
				continue
			}
			fmt.Fprintf(w, "%s  > %s  %s%s\n", indent, ShortID(child.ID), child.Name, mark)
			onPath[child.ID] = true
			a.writeItems(w, child, depth+2, onPath)
			delete(onPath, child.ID)
		}
	}
}
