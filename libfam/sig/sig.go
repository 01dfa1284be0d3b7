// Package sig computes canonical Weisfeiler-Lehman signatures of graphs.
//
// A signature is an isomorphism invariant: relabelings of one graph always hash
// to the same Signature.  The converse does not hold -- two non-isomorphic
// graphs can collide -- so callers needing certainty must confirm bucket
// membership with an exact isomorphism check.
package sig

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"

	"github.com/isofam-systems/isofam/isofam"
)

// AutoIterations requests refinement until the color partition stabilizes,
// bounded by the graph's node count (color refinement can split a partition of
// N elements at most N-1 times before it provably converges).
const AutoIterations = 0

// Refinement beyond this many tuples (Nv^k) is rejected outright rather than
// silently exhausting memory.
const maxTupleSpace = 1 << 26

// Signature returns the canonical k-WL signature of X after the given number
// of refinement rounds (AutoIterations runs to the stable partition).
//
// k = 1 uses the standard WL node-labeling hash; k >= 2 refines colors over
// all Nv^k node tuples.  k < 1 or a negative iteration count is a contract
// violation, never clamped.
func Signature(X *isofam.Graph, k int, iterations int) (isofam.Signature, error) {
	if X == nil {
		return "", isofam.ErrNilGraph
	}
	if k < 1 {
		return "", errors.Wrapf(isofam.ErrBadDim, "k=%d", k)
	}
	if iterations != AutoIterations && iterations < 1 {
		return "", errors.Wrapf(isofam.ErrBadIterations, "iterations=%d", iterations)
	}

	if iterations == AutoIterations {
		iterations = X.NodeCount()
	}

	if k == 1 {
		return isofam.Signature(hash1WL(X, iterations)), nil
	}

	tupleSpace := 1
	for i := 0; i < k; i++ {
		tupleSpace *= X.NodeCount()
		if tupleSpace > maxTupleSpace {
			return "", errors.Wrapf(isofam.ErrBadDim, "tuple space %d^%d is too large", X.NodeCount(), k)
		}
	}

	return isofam.Signature(hashKWL(X, k, iterations)), nil
}

// digest is the two-stage deterministic hash: a fixed-seed structural hash of
// the value, then a cryptographic digest of that hash's bytes.  xxhash carries
// no per-process seed, so equal inputs hash equally across runs -- a hard
// requirement for reproducible signatures.
func digest(structural []byte) string {
	var scrap [8]byte
	binary.LittleEndian.PutUint64(scrap[:], xxhash.Sum64(structural))
	sum := sha256.Sum256(scrap[:])
	return hex.EncodeToString(sum[:])
}

// hash1WL is the standard WL graph hash, seeded from node degrees.
//
// Each round relabels every node with a digest of its own label joined with
// its sorted neighbor labels, then appends the round's sorted (label, count)
// pairs to a trajectory buffer.  The final signature hashes the trajectory of
// every round, not just the final partition, which sharpens discrimination.
func hash1WL(X *isofam.Graph, iterations int) string {
	Nv := X.NodeCount()

	labels := make([]string, Nv)
	for vi := range labels {
		labels[vi] = strconv.Itoa(X.Degree(isofam.NodeID(vi)))
	}

	var trajectory []byte
	nbrs := make([]string, 0, Nv)
	joined := make([]byte, 0, 256)

	for round := 0; round < iterations; round++ {
		next := make([]string, Nv)
		for vi := 0; vi < Nv; vi++ {
			nbrs = nbrs[:0]
			X.EachNeighbor(isofam.NodeID(vi), func(w isofam.NodeID) {
				nbrs = append(nbrs, labels[w])
			})
			sort.Strings(nbrs)

			joined = append(joined[:0], labels[vi]...)
			for _, L := range nbrs {
				joined = append(joined, L...)
			}
			next[vi] = digest(joined)
		}
		labels = next

		// per-round sorted (label, count) pairs
		counts := redblacktree.NewWithStringComparator()
		for _, L := range labels {
			n := 0
			if prev, found := counts.Get(L); found {
				n = prev.(int)
			}
			counts.Put(L, n+1)
		}
		it := counts.Iterator()
		for it.Next() {
			trajectory = append(trajectory, it.Key().(string)...)
			trajectory = binary.AppendUvarint(trajectory, uint64(it.Value().(int)))
		}
	}

	return digest(trajectory)
}

// hashKWL refines integer colors over all Nv^k ordered node tuples.
//
// Tuples are indexed arithmetically: tuple t holds node (t / Nv^pos) % Nv at
// position pos, so the k-fold Cartesian product is never materialized.
func hashKWL(X *isofam.Graph, k, iterations int) string {
	Nv := X.NodeCount()
	if Nv == 0 {
		return digest(nil)
	}

	numTuples := 1
	strides := make([]int, k)
	for pos := 0; pos < k; pos++ {
		strides[pos] = numTuples
		numTuples *= Nv
	}

	// Initial color of a tuple is its atomic type: the bit vector of adjacency
	// over the C(k,2) node pairs within the tuple.  Color classes are keyed in
	// a redblacktree so enumeration order is the sorted key order -- map
	// iteration order would poison determinism here.
	colors := make([]int, numTuples)
	{
		classes := redblacktree.NewWithStringComparator()
		var key []byte
		for t := 0; t < numTuples; t++ {
			key = key[:0]
			for i := 0; i < k; i++ {
				vi := isofam.NodeID((t / strides[i]) % Nv)
				for j := i + 1; j < k; j++ {
					vj := isofam.NodeID((t / strides[j]) % Nv)
					bit := byte(0)
					if X.HasEdge(vi, vj) {
						bit = 1
					}
					key = append(key, bit)
				}
			}
			addClassMember(classes, string(key), t)
		}
		assignColors(classes, colors)
	}

	prev := make([]int, numTuples)
	multiset := make([]int, Nv)

	for round := 0; round < iterations; round++ {
		classes := redblacktree.NewWithStringComparator()
		var key []byte

		for t := 0; t < numTuples; t++ {
			// composite signature: own color, then for each tuple position the
			// sorted multiset of colors over all single-node substitutions
			key = binary.AppendUvarint(key[:0], uint64(colors[t]))

			for pos := 0; pos < k; pos++ {
				base := t - ((t/strides[pos])%Nv)*strides[pos]
				for w := 0; w < Nv; w++ {
					multiset[w] = colors[base+w*strides[pos]]
				}
				sort.Ints(multiset)
				for _, c := range multiset {
					key = binary.AppendUvarint(key, uint64(c))
				}
			}
			addClassMember(classes, string(key), t)
		}

		prev, colors = colors, prev
		assignColors(classes, colors)

		if colorsEqual(colors, prev) {
			break // fixed point
		}
	}

	// Hash the sorted multiset of final colors.  Sorting makes the signature
	// independent of tuple enumeration order, so relabeled graphs hash equally.
	final := append([]int(nil), colors...)
	sort.Ints(final)

	var buf []byte
	for _, c := range final {
		buf = binary.AppendUvarint(buf, uint64(c))
	}
	return digest(buf)
}

func addClassMember(classes *redblacktree.Tree, key string, tuple int) {
	if members, found := classes.Get(key); found {
		classes.Put(key, append(members.([]int), tuple))
	} else {
		classes.Put(key, []int{tuple})
	}
}

// assignColors enumerates color classes in sorted key order, issuing each
// class the next integer color.
func assignColors(classes *redblacktree.Tree, colors []int) {
	nextColor := 0
	it := classes.Iterator()
	for it.Next() {
		for _, t := range it.Value().([]int) {
			colors[t] = nextColor
		}
		nextColor++
	}
}

func colorsEqual(a, b []int) bool {
	for i, ai := range a {
		if ai != b[i] {
			return false
		}
	}
	return true
}
