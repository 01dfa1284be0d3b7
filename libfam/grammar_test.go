package libfam_test

import (
	"errors"
	"testing"

	"github.com/isofam-systems/isofam/isofam"
	"github.com/isofam-systems/isofam/libfam"
)

func TestEdgeListGrammar(t *testing.T) {
	gT = t

	X := mustGraph("[(0, 1), (1, 2), (3, )]")
	defer X.Reclaim()

	if X.NodeCount() != 4 {
		t.Fatalf("node count %d, want 4", X.NodeCount())
	}
	if !X.HasEdge(0, 1) || !X.HasEdge(1, 2) || X.HasEdge(0, 2) {
		t.Fatal("wrong adjacency")
	}
	if X.Degree(3) != 0 {
		t.Fatal("singleton entry grew an edge")
	}

	// the textual form round-trips
	Y := mustGraph(X.String())
	defer Y.Reclaim()
	if Y.String() != X.String() {
		t.Fatalf("round trip mismatch: %q vs %q", Y.String(), X.String())
	}
}

func TestEdgeListGrammarOneNode(t *testing.T) {
	gT = t

	X := mustGraph("[(0, )]")
	defer X.Reclaim()
	if X.NodeCount() != 1 || X.EdgeCount() != 0 {
		t.Fatal("one-node graph parsed wrong")
	}
	if X.String() != "[(0, )]" {
		t.Fatalf("unexpected text form %q", X.String())
	}
}

func TestEdgeListGrammarErrors(t *testing.T) {
	if _, err := libfam.ParseGraph("[(0, 0)]"); !errors.Is(err, isofam.ErrBadEdge) {
		t.Fatalf("self loop: got %v", err)
	}
	if _, err := libfam.ParseGraph("(0, 1)"); err == nil {
		t.Fatal("missing brackets accepted")
	}
	if _, err := libfam.ParseGraph("[(0 1)]"); err == nil {
		t.Fatal("missing comma accepted")
	}
	if _, err := libfam.ParseGraph("[(0, 99)]"); !errors.Is(err, isofam.ErrBadNodeID) {
		t.Fatal("node limit not enforced")
	}
}
