package isofam

const (

	// MaxNodes is the max number of nodes a Graph can hold (node IDs are zero-based).
	MaxNodes = 31
)

// NodeID is a zero-based node identifier, assigned densely in creation order.
type NodeID int32

// Signature is a canonical hash string of a Graph produced by the signature engine.
//
// Isomorphic graphs always map to the same Signature.  Non-isomorphic graphs usually
// map to different Signatures, but equality of Signatures does not prove isomorphism.
type Signature string

// Family is an ordered set of mutually non-isomorphic graphs sharing one Signature,
// each representing a distinct isomorphism class.
type Family []*Graph

// Oracle is an exact graph isomorphism decision capability.
//
// Implementations must be symmetric and reflexive, and consistent with true
// graph isomorphism (no false positives, no false negatives).
type Oracle interface {
	IsIsomorphic(a, b *Graph) bool
}

// GraphAdder accepts graphs one at a time, retaining only those not already present.
type GraphAdder interface {

	// TryAddGraph adds the given graph if no isomorphic equivalent has been added before.
	// If true is returned, X was not present and (a copy of) X was retained.
	TryAddGraph(X *Graph) bool
}

// OnGraphHit is a callback channel used to return Graphs meeting a set of selection criteria.
// Ownership of a Graph travels through the channel.
type OnGraphHit chan<- *Graph

// GraphSelector bounds a catalog selection by node count.
type GraphSelector struct {
	MinNodes byte // lower select bound (0 selects from the smallest stored graph)
	MaxNodes byte // upper select bound, inclusive
}

var DefaultGraphSelector = GraphSelector{
	MinNodes: 0,
	MaxNodes: MaxNodes,
}

// Catalog wraps a store of graph encodings bucketed by Signature.
type Catalog interface {
	GraphAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumSignatures returns the number of unique signature buckets holding graphs
	// of the given node count.  An out of bounds node count returns 0.
	NumSignatures(forNodeCount byte) int64

	// NumGraphs returns the number of confirmed-distinct graphs of the given
	// node count.  An out of bounds node count returns 0.
	NumGraphs(forNodeCount byte) int64

	// Select fires the given callback channel with each stored graph that meets
	// the selection criteria.
	Select(sel GraphSelector, onHit OnGraphHit)

	Close() error
}

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Signals all open catalogs to close, then closes this context.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed.
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a Catalog
type CatalogOpts struct {
	DbPathName string // omit for an in-memory db
	ReadOnly   bool   // open in read-only mode
	Oracle     Oracle // nil selects the built-in oracle
}

// FamilySet maps each discovered Signature to its Family, preserving the order
// in which signatures were first seen so that enumeration is stable.
type FamilySet struct {
	Tags     []Signature          // signatures in first-discovery order
	Families map[Signature]Family // Tags[i] is always present as a key
}

func NewFamilySet() *FamilySet {
	return &FamilySet{
		Families: make(map[Signature]Family),
	}
}

// Add appends X to the family for the given signature, creating the family if absent.
// The FamilySet takes ownership of X.
func (set *FamilySet) Add(tag Signature, X *Graph) {
	fam, found := set.Families[tag]
	if !found {
		set.Tags = append(set.Tags, tag)
	}
	set.Families[tag] = append(fam, X)
}

// NumFamilies returns the number of signature buckets in this set.
func (set *FamilySet) NumFamilies() int {
	return len(set.Tags)
}

// NumGraphs returns the total number of graphs across all families.
func (set *FamilySet) NumGraphs() int {
	count := 0
	for _, fam := range set.Families {
		count += len(fam)
	}
	return count
}

// Reclaim returns every retained graph to the pool and empties this set.
func (set *FamilySet) Reclaim() {
	for _, fam := range set.Families {
		for _, X := range fam {
			X.Reclaim()
		}
	}
	set.Tags = nil
	set.Families = make(map[Signature]Family)
}
