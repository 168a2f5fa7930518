package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nhle/hammer-list/internal/logging"
	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/mutate"
	"github.com/nhle/hammer-list/tests/testutil"
)

func openMemory(t *testing.T) *App {
	t.Helper()
	cfg := &model.AppConfig{
		Store:     model.StoreConfig{Driver: model.StoreDriverMemory},
		Mutation:  model.MutationConfig{RenumberOnDelete: true},
		Navigator: model.NavigatorConfig{CacheSize: 16},
	}
	a, err := Open(context.Background(), cfg,
		WithLogger(logging.NewNop()),
		WithGraphOptions(testutil.DeterministicOptions()...),
	)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOpen_WiresServiceOptions(t *testing.T) {
	a := openMemory(t)
	if got := a.Service.Options(); got.Strict || !got.RenumberOnDelete {
		t.Fatalf("service options = %+v", got)
	}
	if a.Service.Graph() != a.Graph {
		t.Fatalf("service and app use different graphs")
	}
}

func TestResolveList(t *testing.T) {
	ctx := context.Background()
	a := openMemory(t)
	home, _ := a.Service.CreateProject(ctx, "Home")
	a.Service.CreateProject(ctx, "Work")
	a.Service.CreateProject(ctx, "work")

	if l, err := a.ResolveList("home"); err != nil || l.ID != home.ID {
		t.Fatalf("ResolveList by name = %v, %v", l, err)
	}
	if l, err := a.ResolveList(home.ID); err != nil || l.ID != home.ID {
		t.Fatalf("ResolveList by id = %v, %v", l, err)
	}
	if _, err := a.ResolveList("WORK"); err == nil {
		t.Fatalf("expected ambiguity error")
	}
	// ids are id-1, id-2, ...; "id-" matches them all.
	if _, err := a.ResolveList("id-"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Fatalf("prefix ambiguity err = %v", err)
	}
	var nf mutate.NotFoundError
	if _, err := a.ResolveList("Garden"); !errors.As(err, &nf) {
		t.Fatalf("missing list err = %v", err)
	}
}

func TestWriteTree_SharedList(t *testing.T) {
	ctx := context.Background()
	a := openMemory(t)
	home, _ := a.Service.CreateProject(ctx, "Home")
	first, _ := a.Service.AddItem(ctx, home.ID, "First")
	second, _ := a.Service.AddItem(ctx, home.ID, "Second")
	shared, _ := a.Service.AddChildList(ctx, first.ID, "Shared")
	a.Service.AddItem(ctx, shared.ID, "Inside")
	if err := a.Service.LinkSharedList(ctx, second.ID, shared.ID); err != nil {
		t.Fatalf("LinkSharedList: %v", err)
	}

	var buf bytes.Buffer
	a.WriteTree(&buf, nil)
	out := buf.String()
	if n := strings.Count(out, "Inside"); n != 2 {
		t.Fatalf("shared list printed %d times:\n%s", n, out)
	}
	if !strings.Contains(out, "(shared)") {
		t.Fatalf("shared marker missing:\n%s", out)
	}

	buf.Reset()
	a.WriteList(&buf, shared)
	if !strings.Contains(buf.String(), "Home / Shared  (shared by 2 items)") {
		t.Fatalf("list header = %q", buf.String())
	}

	buf.Reset()
	a.WriteList(&buf, home)
	if !strings.Contains(buf.String(), "First  +1 list\n") {
		t.Fatalf("container suffix missing:\n%s", buf.String())
	}
}

func TestStatusMark(t *testing.T) {
	marks := map[model.Status]string{
		model.StatusNotStarted: "[ ]",
		model.StatusInProgress: "[~]",
		model.StatusCompleted:  "[x]",
	}
	for s, want := range marks {
		if got := StatusMark(s); got != want {
			t.Fatalf("StatusMark(%s) = %q, want %q", s, got, want)
		}
	}
}
