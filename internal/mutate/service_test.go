package mutate_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/nhle/hammer-list/internal/graph"
	"github.com/nhle/hammer-list/internal/logging"
	"github.com/nhle/hammer-list/internal/metrics"
	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/mutate"
	"github.com/nhle/hammer-list/internal/ordering"
	"github.com/nhle/hammer-list/internal/store"
	"github.com/nhle/hammer-list/tests/testutil"
)

type fixture struct {
	svc *mutate.Service
	g   *graph.Graph
	ms  *store.MemoryStore
	rec *metrics.Recorder
}

func newFixture(t *testing.T, opts mutate.Options) fixture {
	t.Helper()
	g, ms := testutil.NewTestGraph(t)
	rec := metrics.NewRecorder(prometheus.NewRegistry())
	log := logging.NewZap(zaptest.NewLogger(t))
	return fixture{svc: mutate.New(g, log, rec, opts), g: g, ms: ms, rec: rec}
}

func mustProject(t *testing.T, f fixture, name string) *model.List {
	t.Helper()
	p, err := f.svc.CreateProject(context.Background(), name)
	if err != nil || p == nil {
		t.Fatalf("CreateProject(%q) = %v, %v", name, p, err)
	}
	return p
}

func mustItem(t *testing.T, f fixture, listID, title string) *model.Item {
	t.Helper()
	it, err := f.svc.AddItem(context.Background(), listID, title)
	if err != nil || it == nil {
		t.Fatalf("AddItem(%q) = %v, %v", title, it, err)
	}
	return it
}

// reload reads the fixture's store back into a fresh graph.
func reload(t *testing.T, f fixture) *graph.Graph {
	t.Helper()
	g, warnings, err := graph.Load(context.Background(), f.ms)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("Load = %v, warnings %v", err, warnings)
	}
	return g
}

func titles(items []*model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}

func orders(items []*model.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.Order
	}
	return out
}

func TestScenario_GroceriesUnderErrands(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())

	p := mustProject(t, f, "P")
	errands := mustItem(t, f, p.ID, "Errands")
	groceries, err := f.svc.AddChildList(ctx, errands.ID, "Groceries")
	if err != nil || groceries == nil {
		t.Fatalf("AddChildList = %v, %v", groceries, err)
	}
	milk := mustItem(t, f, groceries.ID, "Milk")
	eggs := mustItem(t, f, groceries.ID, "Eggs")
	if milk.Order != 0 || eggs.Order != 1 {
		t.Fatalf("orders = %d, %d; want 0, 1", milk.Order, eggs.Order)
	}

	if err := f.svc.MoveItems(ctx, groceries.ID, []int{1}, 0); err != nil {
		t.Fatalf("MoveItems: %v", err)
	}
	if eggs.Order != 0 || milk.Order != 1 {
		t.Fatalf("after move: eggs=%d milk=%d", eggs.Order, milk.Order)
	}
	if got := titles(f.g.Items(groceries.ID)); !slices.Equal(got, []string{"Eggs", "Milk"}) {
		t.Fatalf("display order = %v", got)
	}

	for range 2 {
		if _, err := f.svc.ToggleStatus(ctx, milk.ID); err != nil {
			t.Fatalf("ToggleStatus: %v", err)
		}
	}
	if milk.Status != model.StatusCompleted {
		t.Fatalf("milk status = %s, want completed", milk.Status)
	}

	if err := f.svc.DeleteItems(ctx, p.ID, []int{0}); err != nil {
		t.Fatalf("DeleteItems: %v", err)
	}
	for _, id := range []string{milk.ID, eggs.ID, errands.ID} {
		if _, ok := f.g.Item(id); ok {
			t.Fatalf("item %s survived", id)
		}
	}
	if _, ok := f.g.List(groceries.ID); ok {
		t.Fatalf("exclusively owned list survived")
	}

	snap, err := f.ms.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Lists) != 1 || len(snap.Items) != 0 || len(snap.Edges) != 0 {
		t.Fatalf("store holds %d lists, %d items, %d edges", len(snap.Lists), len(snap.Items), len(snap.Edges))
	}
}

func TestAddItem_AssignsNextOrder(t *testing.T) {
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "Home")
	for _, title := range []string{"a", "b", "c"} {
		mustItem(t, f, p.ID, title)
	}
	items := f.g.Items(p.ID)
	if got := orders(items); !slices.Equal(got, []int{0, 1, 2}) {
		t.Fatalf("orders = %v", got)
	}
	if items[0].Status != model.StatusNotStarted {
		t.Fatalf("new item status = %s", items[0].Status)
	}
	if got := promtest.ToFloat64(f.rec.MutationCounter(mutate.OpAddItem)); got != 3 {
		t.Fatalf("add_item mutations = %v, want 3", got)
	}
}

func TestAddItem_EmptyTitleIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "Home")

	for _, title := range []string{"", "   ", "\t\n"} {
		it, err := f.svc.AddItem(ctx, p.ID, title)
		if it != nil || err != nil {
			t.Fatalf("AddItem(%q) = %v, %v; want nil, nil", title, it, err)
		}
	}
	if n := len(f.g.Items(p.ID)); n != 0 {
		t.Fatalf("list has %d items, want 0", n)
	}
	if got := promtest.ToFloat64(f.rec.RejectionCounter(mutate.OpAddItem)); got != 3 {
		t.Fatalf("rejections = %v, want 3", got)
	}
}

func TestStrict_EmptyTitleReturnsError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.Options{Strict: true, RenumberOnDelete: true})
	p := mustProject(t, f, "Home")

	if _, err := f.svc.AddItem(ctx, p.ID, "  "); !errors.Is(err, model.ErrEmptyTitle) {
		t.Fatalf("AddItem err = %v, want ErrEmptyTitle", err)
	}
	if _, err := f.svc.CreateProject(ctx, ""); !errors.Is(err, model.ErrEmptyTitle) {
		t.Fatalf("CreateProject err = %v, want ErrEmptyTitle", err)
	}
	if _, err := f.svc.RenameList(ctx, p.ID, " "); !errors.Is(err, model.ErrEmptyTitle) {
		t.Fatalf("RenameList err = %v, want ErrEmptyTitle", err)
	}
	if p.Name != "Home" {
		t.Fatalf("name changed to %q", p.Name)
	}
}

func TestUnknownIDs_ReturnNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())

	_, err := f.svc.AddItem(ctx, "nope", "x")
	var nf mutate.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "list" || nf.ID != "nope" {
		t.Fatalf("AddItem err = %v", err)
	}
	if _, err := f.svc.ToggleStatus(ctx, "ghost"); !errors.As(err, &nf) || nf.Kind != "item" {
		t.Fatalf("ToggleStatus err = %v", err)
	}
}

func TestCommitFailure_LenientLogsAndKeepsEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "Home")

	f.ms.FailWith(errors.New("disk full"))
	it, err := f.svc.AddItem(ctx, p.ID, "Milk")
	if err != nil || it == nil {
		t.Fatalf("AddItem = %v, %v; want item, nil", it, err)
	}
	if _, ok := f.g.Item(it.ID); !ok {
		t.Fatalf("in-memory effect rolled back")
	}
	if got := promtest.ToFloat64(f.rec.CommitFailureCounter()); got != 1 {
		t.Fatalf("commit failures = %v, want 1", got)
	}

	f.ms.FailWith(nil)
	if _, err := f.svc.AddItem(ctx, p.ID, "Eggs"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	snap, err := f.ms.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Items) != 2 {
		t.Fatalf("store holds %d items, want 2 (retry of failed commit)", len(snap.Items))
	}
}

func TestCommitFailure_StrictReturnsError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.Options{Strict: true})
	p := mustProject(t, f, "Home")

	boom := errors.New("disk full")
	f.ms.FailWith(boom)
	if _, err := f.svc.AddItem(ctx, p.ID, "Milk"); !errors.Is(err, boom) {
		t.Fatalf("AddItem err = %v, want %v", err, boom)
	}
}

func TestDeleteItems_SnapshotsIndicesAndRenumbers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "Home")
	for _, title := range []string{"a", "b", "c", "d"} {
		mustItem(t, f, p.ID, title)
	}

	if err := f.svc.DeleteItems(ctx, p.ID, []int{2, 0, 9}); err != nil {
		t.Fatalf("DeleteItems: %v", err)
	}
	items := f.g.Items(p.ID)
	if got := titles(items); !slices.Equal(got, []string{"b", "d"}) {
		t.Fatalf("remaining = %v", got)
	}
	if !ordering.IsDense(items) {
		t.Fatalf("orders not dense: %v", orders(items))
	}
}

func TestDeleteItems_WithoutRenumberKeepsGaps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.Options{})
	p := mustProject(t, f, "Home")
	for _, title := range []string{"a", "b", "c"} {
		mustItem(t, f, p.ID, title)
	}

	if err := f.svc.DeleteItems(ctx, p.ID, []int{0}); err != nil {
		t.Fatalf("DeleteItems: %v", err)
	}
	if got := orders(f.g.Items(p.ID)); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("orders = %v, want [1 2]", got)
	}
	next := mustItem(t, f, p.ID, "d")
	if next.Order != 3 {
		t.Fatalf("next order = %d, want 3", next.Order)
	}

	if err := f.svc.MoveItems(ctx, p.ID, nil, 0); err != nil {
		t.Fatalf("MoveItems: %v", err)
	}
	if got := orders(f.g.Items(p.ID)); !slices.Equal(got, []int{0, 1, 2}) {
		t.Fatalf("move did not re-densify: %v", got)
	}
}

func TestDeleteItems_SharedChildListSurvives(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "Home")
	a := mustItem(t, f, p.ID, "A")
	b := mustItem(t, f, p.ID, "B")

	shared, err := f.svc.AddChildList(ctx, a.ID, "Shared")
	if err != nil {
		t.Fatalf("AddChildList: %v", err)
	}
	if err := f.svc.LinkSharedList(ctx, b.ID, shared.ID); err != nil {
		t.Fatalf("LinkSharedList: %v", err)
	}
	mustItem(t, f, shared.ID, "inside")

	if err := f.svc.DeleteItems(ctx, p.ID, []int{0}); err != nil {
		t.Fatalf("DeleteItems: %v", err)
	}
	l, ok := f.g.List(shared.ID)
	if !ok {
		t.Fatalf("shared list was deleted")
	}
	if !slices.Equal(l.ParentItemIDs, []string{b.ID}) {
		t.Fatalf("parents = %v, want [%s]", l.ParentItemIDs, b.ID)
	}
	if len(f.g.Items(shared.ID)) != 1 {
		t.Fatalf("shared list lost its items")
	}
}

func TestDeleteItems_SurvivingSharedListRenumbered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "P")
	x := mustItem(t, f, p.ID, "X")
	y := mustItem(t, f, p.ID, "Y")

	k, _ := f.svc.AddChildList(ctx, x.ID, "K")
	l, _ := f.svc.AddChildList(ctx, x.ID, "L")
	if err := f.svc.LinkSharedList(ctx, y.ID, l.ID); err != nil {
		t.Fatalf("LinkSharedList: %v", err)
	}

	if err := f.svc.DeleteItems(ctx, p.ID, []int{0}); err != nil {
		t.Fatalf("DeleteItems: %v", err)
	}
	if _, ok := f.g.List(k.ID); ok {
		t.Fatalf("exclusively owned list survived")
	}
	if !slices.Equal(l.ParentItemIDs, []string{y.ID}) || l.Order != 0 {
		t.Fatalf("survivor: parents=%v order=%d, want [%s] 0", l.ParentItemIDs, l.Order, y.ID)
	}
	assertHealthy(t, f)

	reloaded := reload(t, f)
	if got, _ := reloaded.List(l.ID); got.Order != 0 {
		t.Fatalf("persisted survivor order = %d", got.Order)
	}
}

func TestMoveItems_SamePositionIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "Home")
	for _, title := range []string{"a", "b", "c"} {
		mustItem(t, f, p.ID, title)
	}
	before := f.ms.Applies()

	if err := f.svc.MoveItems(ctx, p.ID, []int{1}, 2); err != nil {
		t.Fatalf("MoveItems: %v", err)
	}
	if f.ms.Applies() != before {
		t.Fatalf("no-op move committed")
	}
	if got := titles(f.g.Items(p.ID)); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("order changed: %v", got)
	}
}

func TestMoveItems_KeepsDense(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "Home")
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		mustItem(t, f, p.ID, title)
	}

	moves := []struct {
		src  []int
		dest int
	}{
		{[]int{0}, 5},
		{[]int{1, 3}, 0},
		{[]int{4}, 2},
	}
	for _, m := range moves {
		if err := f.svc.MoveItems(ctx, p.ID, m.src, m.dest); err != nil {
			t.Fatalf("MoveItems: %v", err)
		}
		if items := f.g.Items(p.ID); !ordering.IsDense(items) {
			t.Fatalf("orders not dense after %v -> %d: %v", m.src, m.dest, orders(items))
		}
	}
	if got := titles(f.g.Items(p.ID)); !slices.Equal(got, []string{"c", "e", "a", "b", "d"}) {
		t.Fatalf("final order = %v", got)
	}
}

func TestToggleStatus_RefreshesTimestamp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "Home")
	it := mustItem(t, f, p.ID, "Milk")
	created := it.Timestamp

	if _, err := f.svc.ToggleStatus(ctx, it.ID); err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}
	if it.Status != model.StatusInProgress || !it.Timestamp.After(created) {
		t.Fatalf("after toggle: %s at %v", it.Status, it.Timestamp)
	}
	for range 2 {
		f.svc.ToggleStatus(ctx, it.ID)
	}
	if it.Status != model.StatusNotStarted {
		t.Fatalf("three toggles ended at %s", it.Status)
	}
}

func TestRenameItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "Home")
	it := mustItem(t, f, p.ID, "Milk")

	if _, err := f.svc.RenameItem(ctx, it.ID, "  Oat milk "); err != nil {
		t.Fatalf("RenameItem: %v", err)
	}
	if it.Title != "Oat milk" {
		t.Fatalf("title = %q", it.Title)
	}
	if got, err := f.svc.RenameItem(ctx, it.ID, ""); got != nil || err != nil || it.Title != "Oat milk" {
		t.Fatalf("empty rename = %v, %v; title %q", got, err, it.Title)
	}
}

func TestSeedSample(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, mutate.DefaultOptions())
	p := mustProject(t, f, "Home")
	mustItem(t, f, p.ID, "existing")

	items, err := f.svc.SeedSample(ctx, p.ID)
	if err != nil {
		t.Fatalf("SeedSample: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("seeded %d items", len(items))
	}
	all := f.g.Items(p.ID)
	if !ordering.IsDense(all) {
		t.Fatalf("orders not dense: %v", orders(all))
	}
	seen := map[model.Status]bool{}
	for _, it := range items {
		seen[it.Status] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected one item per status, got %v", seen)
	}
}
