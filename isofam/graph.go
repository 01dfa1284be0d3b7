package isofam

import (
	"encoding/binary"
	"io"
	"math/bits"
	"strconv"
	"sync"
)

// Graph is an undirected simple graph over dense, zero-based node IDs.
//
// Adjacency is kept as one bit row per node: bit w of adj[v] is set iff the
// edge (v, w) exists.  No self loops, no parallel edges, no labels.
type Graph struct {
	nodeCount int32
	adj       [MaxNodes]uint32
}

var graphPool = sync.Pool{
	New: func() interface{} {
		return &Graph{}
	},
}

// NewGraph returns a pooled Graph instance initialized as a copy of Xsrc (or empty if nil).
func NewGraph(Xsrc *Graph) *Graph {
	X := graphPool.Get().(*Graph)
	X.Init(Xsrc)
	return X
}

// NewGraphFromEncoding returns a pooled Graph decoded from a state encoding.
func NewGraphFromEncoding(enc []byte) (*Graph, error) {
	X := graphPool.Get().(*Graph)
	if err := X.InitFromEncoding(enc); err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}

// Init resets X to be a copy of Xsrc, or to the empty graph if Xsrc is nil.
func (X *Graph) Init(Xsrc *Graph) {
	if Xsrc == nil {
		X.nodeCount = 0
		X.adj = [MaxNodes]uint32{}
		return
	}
	*X = *Xsrc
}

// MakeCopy returns a new pooled copy of this instance.
func (X *Graph) MakeCopy() *Graph {
	return NewGraph(X)
}

// Reclaim recycles this Graph instance into a pool for reuse.
// Caller asserts that no more references to this instance will persist.
func (X *Graph) Reclaim() {
	if X != nil {
		graphPool.Put(X)
	}
}

func (X *Graph) NodeCount() int {
	return int(X.nodeCount)
}

func (X *Graph) EdgeCount() int {
	ends := 0
	for vi := int32(0); vi < X.nodeCount; vi++ {
		ends += bits.OnesCount32(X.adj[vi])
	}
	return ends >> 1
}

// AddNode appends a new isolated node and returns its ID.
// Node IDs are never reused; panics if the MaxNodes limit is exceeded.
func (X *Graph) AddNode() NodeID {
	if X.nodeCount >= MaxNodes {
		panic(ErrGraphFull)
	}
	v := NodeID(X.nodeCount)
	X.adj[v] = 0
	X.nodeCount++
	return v
}

// AddEdge connects nodes a and b.  Adding an existing edge is a no-op.
func (X *Graph) AddEdge(a, b NodeID) error {
	if a < 0 || b < 0 || int32(a) >= X.nodeCount || int32(b) >= X.nodeCount {
		return ErrBadNodeID
	}
	if a == b {
		return ErrBadEdge
	}
	X.adj[a] |= 1 << uint32(b)
	X.adj[b] |= 1 << uint32(a)
	return nil
}

func (X *Graph) HasEdge(a, b NodeID) bool {
	if a < 0 || b < 0 || int32(a) >= X.nodeCount || int32(b) >= X.nodeCount {
		return false
	}
	return X.adj[a]&(1<<uint32(b)) != 0
}

func (X *Graph) Degree(v NodeID) int {
	if v < 0 || int32(v) >= X.nodeCount {
		return 0
	}
	return bits.OnesCount32(X.adj[v])
}

// EachNeighbor visits the neighbors of v in ascending node ID order.
func (X *Graph) EachNeighbor(v NodeID, visit func(w NodeID)) {
	if v < 0 || int32(v) >= X.nodeCount {
		return
	}
	for m := X.adj[v]; m != 0; m &= m - 1 {
		visit(NodeID(bits.TrailingZeros32(m)))
	}
}

// EachEdge visits each edge (a, b) with a < b, in ascending (a, b) order.
func (X *Graph) EachEdge(visit func(a, b NodeID)) {
	for vi := int32(0); vi < X.nodeCount; vi++ {
		for m := X.adj[vi] >> uint32(vi+1) << uint32(vi+1); m != 0; m &= m - 1 {
			visit(NodeID(vi), NodeID(bits.TrailingZeros32(m)))
		}
	}
}

// AppendStateEncoding appends a compact binary encoding of this graph to dst.
//
// The encoding is a pure function of the node count and labeled adjacency, so
// two identically labeled graphs always encode identically.  It is not canonic:
// relabelings of the same graph encode differently.
func (X *Graph) AppendStateEncoding(dst []byte) []byte {
	dst = append(dst, byte(X.nodeCount))
	for vi := int32(0); vi < X.nodeCount; vi++ {
		dst = binary.AppendUvarint(dst, uint64(X.adj[vi]))
	}
	return dst
}

// InitFromEncoding resets X from an encoding produced by AppendStateEncoding.
func (X *Graph) InitFromEncoding(enc []byte) error {
	X.Init(nil)
	if len(enc) < 1 {
		return ErrBadEncoding
	}
	Nv := int32(enc[0])
	if Nv > MaxNodes {
		return ErrBadEncoding
	}
	pos := 1
	for vi := int32(0); vi < Nv; vi++ {
		row, n := binary.Uvarint(enc[pos:])
		if n <= 0 || row > uint64(1)<<uint(Nv)-1 {
			return ErrBadEncoding
		}
		X.adj[vi] = uint32(row)
		pos += n
	}
	if pos != len(enc) {
		return ErrBadEncoding
	}
	X.nodeCount = Nv

	// adjacency must be symmetric and loop-free
	for vi := int32(0); vi < Nv; vi++ {
		if X.adj[vi]&(1<<uint32(vi)) != 0 {
			return ErrBadEncoding
		}
		for m := X.adj[vi]; m != 0; m &= m - 1 {
			w := bits.TrailingZeros32(m)
			if X.adj[w]&(1<<uint32(vi)) == 0 {
				return ErrBadEncoding
			}
		}
	}
	return nil
}

// AppendEdgeList appends the textual edge list form of this graph to dst:
// "[(a, b), (c, d)]" with one "(n, )" entry for each node with no incident edges.
func (X *Graph) AppendEdgeList(dst []byte) []byte {
	dst = append(dst, '[')
	first := true
	X.EachEdge(func(a, b NodeID) {
		if !first {
			dst = append(dst, ", "...)
		}
		first = false
		dst = append(dst, '(')
		dst = strconv.AppendInt(dst, int64(a), 10)
		dst = append(dst, ", "...)
		dst = strconv.AppendInt(dst, int64(b), 10)
		dst = append(dst, ')')
	})
	for vi := int32(0); vi < X.nodeCount; vi++ {
		if X.adj[vi] != 0 {
			continue
		}
		if !first {
			dst = append(dst, ", "...)
		}
		first = false
		dst = append(dst, '(')
		dst = strconv.AppendInt(dst, int64(vi), 10)
		dst = append(dst, ", )"...)
	}
	dst = append(dst, ']')
	return dst
}

// WriteAsString writes the edge list form of this graph followed by a newline.
func (X *Graph) WriteAsString(out io.Writer) (int, error) {
	var scrap [192]byte
	line := X.AppendEdgeList(scrap[:0])
	line = append(line, '\n')
	return out.Write(line)
}

func (X *Graph) String() string {
	var scrap [192]byte
	return string(X.AppendEdgeList(scrap[:0]))
}
