// Package libfam enumerates every structurally distinct simple undirected
// graph up to a given node count, grouping the results into isomorphism-class
// families.
//
// Enumeration is a single-threaded depth-first walk: each retained graph is
// grown by one node with every possible edge subset to the existing nodes, and
// a branch is explored only when the deduplication store confirms its root
// graph new.  Recursion depth equals the target size; breadth is 2^(N-1) when
// adding the Nth node, so time and memory grow doubly-exponentially with the
// target size.  That cost is intrinsic to exhaustive enumeration -- the only
// bound a caller has is the size itself.
package libfam

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/isofam-systems/isofam/isofam"
)

// Generate enumerates all isomorphism classes of simple graphs with 1..maxSize
// nodes into a fresh in-memory store and returns the resulting family set.
//
// The returned set is unfiltered: apply FilterFamilies for the family output
// policy.  maxSize < 1 is a contract violation.
func Generate(maxSize int) (*isofam.FamilySet, error) {
	store := NewDropDupes(nil)
	if err := EnumerateInto(store, maxSize); err != nil {
		store.Reset()
		return nil, err
	}

	set := store.Families()
	klog.Infof("discovered %d signature buckets (%d graphs) through size %d",
		set.NumFamilies(), set.NumGraphs(), maxSize)
	return set, nil
}

// EnumerateInto drives the recursive enumeration into any deduplicating store,
// starting from the single-node graph.
func EnumerateInto(store isofam.GraphAdder, maxSize int) error {
	if maxSize < 1 {
		return errors.Wrapf(isofam.ErrBadMaxSize, "maxSize=%d", maxSize)
	}
	if maxSize > isofam.MaxNodes {
		return errors.Wrapf(isofam.ErrGraphFull, "maxSize=%d exceeds the %d node limit", maxSize, isofam.MaxNodes)
	}

	root := isofam.NewGraph(nil)
	root.AddNode()
	store.TryAddGraph(root)
	expand(store, root, maxSize)
	root.Reclaim()
	return nil
}

// expand grows X by one node and fans out all 2^Nv edge subsets between the
// new node and the existing nodes.  A candidate is recursed into only when the
// store confirms it new: everything reachable below a duplicate is also
// reachable below its already-stored representative, so the branch is pruned.
func expand(store isofam.GraphAdder, X *isofam.Graph, maxSize int) {
	Nv := X.NodeCount()
	if Nv >= maxSize {
		return
	}

	base := isofam.NewGraph(X)
	v := base.AddNode()

	numCombos := 1 << uint(Nv)
	for combo := 0; combo < numCombos; combo++ {
		cand := isofam.NewGraph(base)
		for j := 0; j < Nv; j++ {
			if combo>>uint(j)&1 == 1 {
				cand.AddEdge(v, isofam.NodeID(j))
			}
		}

		if store.TryAddGraph(cand) {
			expand(store, cand, maxSize)
		}
		cand.Reclaim()
	}

	base.Reclaim()
}

// FilterFamilies applies the family output policy to an unfiltered result:
// buckets with fewer than two confirmed-distinct members are dropped (no
// isomorphism ambiguity was ever resolved there), and surviving buckets keep
// only the members that reached maxSize exactly.  Buckets emptied by the size
// cut are dropped too.
//
// keepSingletons bypasses the two-member rule for callers wanting every
// isomorphism class at maxSize.
//
// FilterFamilies consumes set: dropped graphs are reclaimed and kept graphs
// move to the returned FamilySet, so set must not be used afterwards.
func FilterFamilies(set *isofam.FamilySet, maxSize int, keepSingletons bool) *isofam.FamilySet {
	out := isofam.NewFamilySet()

	for _, tag := range set.Tags {
		fam := set.Families[tag]

		keepFam := keepSingletons || len(fam) >= 2
		for _, X := range fam {
			if keepFam && X.NodeCount() == maxSize {
				out.Add(tag, X)
			} else {
				X.Reclaim()
			}
		}
	}

	set.Tags = nil
	set.Families = nil
	return out
}
