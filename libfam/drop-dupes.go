package libfam

import (
	"github.com/isofam-systems/isofam/isofam"
	"github.com/isofam-systems/isofam/libfam/sig"
)

// DropDupes is the in-memory bucketed deduplication store: graphs are bucketed
// by their 1-WL signature and a candidate joins a bucket only after the oracle
// confirms it is not isomorphic to any existing member.
//
// Bucketing uses the cheapest sound invariant (k=1, auto iterations) on
// purpose: a false merge costs one oracle call, while a sharper invariant
// would cost every candidate more.  The store invariant is that no two graphs
// within one bucket are ever isomorphic.
type DropDupes struct {
	oracle isofam.Oracle
	set    *isofam.FamilySet
}

// NewDropDupes returns an empty store.  A nil oracle selects the built-in one.
func NewDropDupes(oracle isofam.Oracle) *DropDupes {
	if oracle == nil {
		oracle = NewOracle()
	}
	return &DropDupes{
		oracle: oracle,
		set:    isofam.NewFamilySet(),
	}
}

// TryAddGraph retains a copy of X iff no isomorphic equivalent is already stored.
func (cat *DropDupes) TryAddGraph(X *isofam.Graph) bool {
	tag, err := sig.Signature(X, 1, sig.AutoIterations)
	if err != nil {
		// k and iterations are fixed valid values, so only a nil graph can land here
		panic(err)
	}

	for _, G := range cat.set.Families[tag] {
		if cat.oracle.IsIsomorphic(X, G) {
			return false
		}
	}

	cat.set.Add(tag, X.MakeCopy())
	return true
}

// Families hands off the accumulated family set, leaving this store empty.
// Ownership of the retained graphs transfers to the caller.
func (cat *DropDupes) Families() *isofam.FamilySet {
	set := cat.set
	cat.set = isofam.NewFamilySet()
	return set
}

// NumGraphs returns the number of graphs currently retained.
func (cat *DropDupes) NumGraphs() int {
	return cat.set.NumGraphs()
}

// Reset reclaims all retained graphs and empties the store.
func (cat *DropDupes) Reset() {
	cat.set.Reclaim()
}
