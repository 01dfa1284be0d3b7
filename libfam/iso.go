package libfam

import (
	"sort"

	"github.com/isofam-systems/isofam/isofam"
)

// NewOracle returns the built-in exact isomorphism oracle: a degree-pruned
// backtracking matcher.  Exponential in the worst case, but the graphs reaching
// it have already collided on a signature bucket and are small by construction.
func NewOracle() isofam.Oracle {
	return oracle{}
}

type oracle struct{}

func (oracle) IsIsomorphic(a, b *isofam.Graph) bool {
	Nv := a.NodeCount()
	if Nv != b.NodeCount() || a.EdgeCount() != b.EdgeCount() {
		return false
	}
	if Nv == 0 {
		return true
	}

	var degA, degB [isofam.MaxNodes]int
	for vi := 0; vi < Nv; vi++ {
		degA[vi] = a.Degree(isofam.NodeID(vi))
		degB[vi] = b.Degree(isofam.NodeID(vi))
	}
	{
		sortedA := append([]int(nil), degA[:Nv]...)
		sortedB := append([]int(nil), degB[:Nv]...)
		sort.Ints(sortedA)
		sort.Ints(sortedB)
		for i := range sortedA {
			if sortedA[i] != sortedB[i] {
				return false
			}
		}
	}

	m := matchState{
		a:  a,
		b:  b,
		Nv: Nv,
	}

	// Most-constrained-first: mapping high-degree nodes early fails fast.
	m.order = make([]isofam.NodeID, Nv)
	for vi := range m.order {
		m.order[vi] = isofam.NodeID(vi)
	}
	sort.SliceStable(m.order, func(i, j int) bool {
		return degA[m.order[i]] > degA[m.order[j]]
	})

	for vi := range m.mapTo {
		m.mapTo[vi] = -1
	}
	return m.extend(0)
}

type matchState struct {
	a, b  *isofam.Graph
	Nv    int
	order []isofam.NodeID
	mapTo [isofam.MaxNodes]int32 // a-node -> b-node, -1 while unassigned
	used  uint32                 // bitmask of assigned b-nodes
}

// extend tries to assign order[depth] to every compatible b-node, checking
// adjacency consistency against all nodes mapped so far.
func (m *matchState) extend(depth int) bool {
	if depth == m.Nv {
		return true
	}

	va := m.order[depth]
	da := m.a.Degree(va)

	for vb := 0; vb < m.Nv; vb++ {
		if m.used&(1<<uint(vb)) != 0 {
			continue
		}
		wb := isofam.NodeID(vb)
		if m.b.Degree(wb) != da {
			continue
		}

		consistent := true
		for d := 0; d < depth; d++ {
			ua := m.order[d]
			ub := isofam.NodeID(m.mapTo[ua])
			if m.a.HasEdge(va, ua) != m.b.HasEdge(wb, ub) {
				consistent = false
				break
			}
		}
		if !consistent {
			continue
		}

		m.mapTo[va] = int32(vb)
		m.used |= 1 << uint(vb)
		if m.extend(depth + 1) {
			return true
		}
		m.used &^= 1 << uint(vb)
		m.mapTo[va] = -1
	}

	return false
}
