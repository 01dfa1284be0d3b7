package isofam

import "testing"

func TestGraphBasics(t *testing.T) {
	X := NewGraph(nil)
	defer X.Reclaim()

	a := X.AddNode()
	b := X.AddNode()
	c := X.AddNode()

	if err := X.AddEdge(a, a); err != ErrBadEdge {
		t.Fatalf("self loop: got %v", err)
	}
	if err := X.AddEdge(a, NodeID(9)); err != ErrBadNodeID {
		t.Fatalf("out of range: got %v", err)
	}
	if err := X.AddEdge(a, b); err != nil {
		t.Fatal(err)
	}
	if err := X.AddEdge(b, a); err != nil { // reverse is the same edge
		t.Fatal(err)
	}

	if X.EdgeCount() != 1 {
		t.Fatalf("edge count %d, want 1", X.EdgeCount())
	}
	if !X.HasEdge(b, a) {
		t.Fatal("undirected edge missing reverse")
	}
	if X.Degree(c) != 0 {
		t.Fatal("isolated node has degree")
	}
	if X.String() != "[(0, 1), (2, )]" {
		t.Fatalf("unexpected edge list %q", X.String())
	}
}

func TestGraphStateEncoding(t *testing.T) {
	X := NewGraph(nil)
	defer X.Reclaim()
	for i := 0; i < 4; i++ {
		X.AddNode()
	}
	X.AddEdge(0, 1)
	X.AddEdge(1, 2)
	X.AddEdge(2, 3)
	X.AddEdge(3, 0)

	enc := X.AppendStateEncoding(nil)
	Y, err := NewGraphFromEncoding(enc)
	if err != nil {
		t.Fatal(err)
	}
	defer Y.Reclaim()

	if Y.String() != X.String() {
		t.Fatalf("decode mismatch: %q vs %q", Y.String(), X.String())
	}

	// a truncated encoding must be rejected
	if _, err := NewGraphFromEncoding(enc[:len(enc)-1]); err == nil {
		t.Fatal("truncated encoding accepted")
	}
}
