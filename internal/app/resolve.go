package app

import (
	"fmt"
	"strings"

	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/mutate"
)

// ShortID is the id prefix shown in listings.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ResolveList finds a list by full id, unique id prefix or, failing that,
// unique case-insensitive name.
func (a *App) ResolveList(ref string) (*model.List, error) {
	ref = strings.TrimSpace(ref)
	if l, ok := a.Graph.List(ref); ok {
		return l, nil
	}

	var byPrefix, byName []*model.List
	for _, l := range a.Graph.Lists() {
		if strings.HasPrefix(l.ID, ref) {
			byPrefix = append(byPrefix, l)
		}
		if strings.EqualFold(l.Name, ref) {
			byName = append(byName, l)
		}
	}
	switch {
	case len(byPrefix) == 1:
		return byPrefix[0], nil
	case len(byPrefix) > 1:
		return nil, fmt.Errorf("list reference %q is ambiguous (%d matches)", ref, len(byPrefix))
	case len(byName) == 1:
		return byName[0], nil
	case len(byName) > 1:
		return nil, fmt.Errorf("list name %q is ambiguous (%d lists); use an id", ref, len(byName))
	}
	return nil, mutate.NotFoundError{Kind: "list", ID: ref}
}

// ResolveItem finds an item by full id or unique id prefix.
func (a *App) ResolveItem(ref string) (*model.Item, error) {
	ref = strings.TrimSpace(ref)
	if it, ok := a.Graph.Item(ref); ok {
		return it, nil
	}

	var matches []*model.Item
	for _, it := range a.Graph.AllItems() {
		if strings.HasPrefix(it.ID, ref) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, mutate.NotFoundError{Kind: "item", ID: ref}
	default:
		return nil, fmt.Errorf("item reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}
