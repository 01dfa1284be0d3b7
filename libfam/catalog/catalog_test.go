package catalog_test

import (
	"os"
	"path"
	"testing"

	"github.com/isofam-systems/isofam/isofam"
	"github.com/isofam-systems/isofam/libfam"
	"github.com/isofam-systems/isofam/libfam/catalog"
)

var gT *testing.T

func mustGraph(edgeList string) *isofam.Graph {
	X, err := libfam.ParseGraph(edgeList)
	if err != nil {
		gT.Fatalf("parse %q: %v", edgeList, err)
	}
	return X
}

func TestBasics(t *testing.T) {
	gT = t

	ctx := isofam.NewCatalogContext()
	cat, err := catalog.OpenCatalog(ctx, isofam.CatalogOpts{}) // in-memory
	if err != nil {
		gT.Fatal(err)
	}

	X := mustGraph("[(0, 1), (1, 2)]")
	defer X.Reclaim()

	if added := cat.TryAddGraph(X); !added {
		t.Fatal("nope")
	}
	if added := cat.TryAddGraph(X); added {
		t.Fatal("nope")
	}

	// a relabeling lands in the same bucket and must be rejected by the oracle
	Y := mustGraph("[(0, 1), (0, 2)]")
	defer Y.Reclaim()
	if added := cat.TryAddGraph(Y); added {
		t.Fatal("isomorphic relabeling accepted")
	}

	// the 1-WL collision pair shares a bucket but both must be kept
	c6 := mustGraph("[(0, 1), (1, 2), (2, 3), (3, 4), (4, 5), (5, 0)]")
	twoC3 := mustGraph("[(0, 1), (1, 2), (2, 0), (3, 4), (4, 5), (5, 3)]")
	defer c6.Reclaim()
	defer twoC3.Reclaim()
	if added := cat.TryAddGraph(c6); !added {
		t.Fatal("nope")
	}
	if added := cat.TryAddGraph(twoC3); !added {
		t.Fatal("collision sibling rejected")
	}

	if n := cat.NumSignatures(6); n != 1 {
		t.Fatalf("NumSignatures(6) = %d, want 1", n)
	}
	if n := cat.NumGraphs(6); n != 2 {
		t.Fatalf("NumGraphs(6) = %d, want 2", n)
	}

	// Select should stream everything added so far
	total := 0
	onHit := make(chan *isofam.Graph)
	go func() {
		cat.Select(isofam.DefaultGraphSelector, onHit)
		close(onHit)
	}()
	for G := range onHit {
		total++
		G.Reclaim()
	}
	if total != 3 {
		t.Fatalf("Select streamed %d graphs, want 3", total)
	}

	cat.Close()
	ctx.Close()
	<-ctx.Done()
}

func TestEnumerateIntoCatalog(t *testing.T) {
	gT = t

	ctx := isofam.NewCatalogContext()
	cat, err := catalog.OpenCatalog(ctx, isofam.CatalogOpts{})
	if err != nil {
		gT.Fatal(err)
	}

	if err := libfam.EnumerateInto(cat, 4); err != nil {
		t.Fatal(err)
	}

	want := map[byte]int64{1: 1, 2: 2, 3: 4, 4: 11}
	for Nv, count := range want {
		if n := cat.NumGraphs(Nv); n != count {
			t.Fatalf("NumGraphs(%d) = %d, want %d", Nv, n, count)
		}
	}
	if n := cat.NumGraphs(5); n != 0 {
		t.Fatalf("graphs past the size bound: %d", n)
	}

	// bounded select
	count := isofam.SelectFromCatalog(cat, isofam.GraphSelector{MinNodes: 4, MaxNodes: 4}).PullAll()
	if count != 11 {
		t.Fatalf("selected %d graphs of size 4, want 11", count)
	}

	cat.Close()
	ctx.Close()
	<-ctx.Done()
}

func TestStatePersists(t *testing.T) {
	gT = t

	dir, err := os.MkdirTemp("", "isofam*")
	if err != nil {
		gT.Fatal(err)
	}
	defer os.RemoveAll(dir)

	opts := isofam.CatalogOpts{
		DbPathName: path.Join(dir, "TestStatePersists"),
	}

	ctx := isofam.NewCatalogContext()
	cat, err := catalog.OpenCatalog(ctx, opts)
	if err != nil {
		gT.Fatal(err)
	}
	if err := libfam.EnumerateInto(cat, 3); err != nil {
		t.Fatal(err)
	}
	cat.Close()

	// reopen and confirm counters and members survived
	cat, err = catalog.OpenCatalog(ctx, opts)
	if err != nil {
		gT.Fatal(err)
	}
	if n := cat.NumGraphs(3); n != 4 {
		t.Fatalf("NumGraphs(3) = %d after reopen, want 4", n)
	}

	X := mustGraph("[(0, 1), (1, 2), (2, 0)]")
	defer X.Reclaim()
	if added := cat.TryAddGraph(X); added {
		t.Fatal("triangle re-added after reopen")
	}

	cat.Close()
	ctx.Close()
	<-ctx.Done()
}
