package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Mutation("add_item")
	r.Mutation("add_item")
	r.Rejected("add_item")
	r.CommitFailed()

	if got := testutil.ToFloat64(r.MutationCounter("add_item")); got != 2 {
		t.Fatalf("mutations = %v", got)
	}
	if got := testutil.ToFloat64(r.RejectionCounter("add_item")); got != 1 {
		t.Fatalf("rejections = %v", got)
	}
	if got := testutil.ToFloat64(r.CommitFailureCounter()); got != 1 {
		t.Fatalf("commit failures = %v", got)
	}
	if n, err := testutil.GatherAndCount(reg); err != nil || n != 3 {
		t.Fatalf("gathered %d series, err %v", n, err)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.Mutation("x")
	r.Rejected("x")
	r.CommitFailed()
}
