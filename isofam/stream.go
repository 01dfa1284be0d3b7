package isofam

import (
	"io"
)

// GraphStream is a channel stage carrying pooled Graph instances.
// Ownership of each Graph travels with it through the Outlet.
type GraphStream struct {
	Outlet chan *Graph
}

func NewGraphStream() *GraphStream {
	return &GraphStream{
		Outlet: make(chan *Graph),
	}
}

// StreamGraph returns a stream that emits a copy of X and then closes.
func StreamGraph(X *Graph) *GraphStream {
	next := NewGraphStream()

	go func() {
		next.Outlet <- X.MakeCopy()
		next.Close()
	}()

	return next
}

// StreamFamily returns a stream that emits a copy of each member of fam and then closes.
func StreamFamily(fam Family) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan *Graph, 1),
	}

	go func() {
		for _, X := range fam {
			next.Outlet <- X.MakeCopy()
		}
		next.Close()
	}()

	return next
}

func (stream *GraphStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *GraphStream) PushGraph(X *Graph) {
	stream.Outlet <- X.MakeCopy()
}

func (stream *GraphStream) PullGraph() *Graph {
	return <-stream.Outlet
}

// PullAll drains this stream, reclaiming each graph, and returns the count pulled.
func (stream *GraphStream) PullAll() int {
	count := 0
	for X := range stream.Outlet {
		count++
		X.Reclaim()
	}
	return count
}

// Print writes each graph's edge list to out as it passes through.
func (stream *GraphStream) Print(out io.Writer) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan *Graph, 1),
	}

	go func() {
		for X := range stream.Outlet {
			X.WriteAsString(out)
			next.Outlet <- X
		}
		next.Close()
	}()

	return next
}

// AddTo offers each graph to target, forwarding only the graphs that were newly added.
func (stream *GraphStream) AddTo(target GraphAdder) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan *Graph, 1),
	}

	go func() {
		for X := range stream.Outlet {
			wasAdded := target.TryAddGraph(X)
			if wasAdded {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog streams all catalog graphs matching sel.
func SelectFromCatalog(cat Catalog, sel GraphSelector) *GraphStream {
	next := &GraphStream{
		Outlet: make(chan *Graph, 1),
	}

	onHit := make(chan *Graph, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for X := range onHit {
			next.Outlet <- X
		}
		next.Close()
	}()

	return next
}
