package catalog

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/isofam-systems/isofam/isofam"
)

// CatalogState is the persisted run state of a catalog: format version plus
// per-node-count bucket and graph counters (index 0 is unused).
type CatalogState struct {
	MajorVers uint32
	MinorVers uint32
	NumSigs   []uint64
	NumGraphs []uint64
}

// Marshal appends a varint encoding of this state to dst.
func (state *CatalogState) Marshal(dst []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(state.MajorVers))
	dst = binary.AppendUvarint(dst, uint64(state.MinorVers))
	dst = appendCounts(dst, state.NumSigs)
	dst = appendCounts(dst, state.NumGraphs)
	return dst
}

func (state *CatalogState) Unmarshal(src []byte) error {
	var err error
	pos := 0

	major, pos, err := readUvarint(src, pos)
	if err != nil {
		return err
	}
	minor, pos, err := readUvarint(src, pos)
	if err != nil {
		return err
	}
	state.MajorVers = uint32(major)
	state.MinorVers = uint32(minor)

	state.NumSigs, pos, err = readCounts(src, pos)
	if err != nil {
		return err
	}
	state.NumGraphs, pos, err = readCounts(src, pos)
	if err != nil {
		return err
	}
	if pos != len(src) {
		return errors.Wrap(isofam.ErrUnmarshal, "trailing catalog state bytes")
	}
	return nil
}

func appendCounts(dst []byte, counts []uint64) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(counts)))
	for _, n := range counts {
		dst = binary.AppendUvarint(dst, n)
	}
	return dst
}

func readCounts(src []byte, pos int) ([]uint64, int, error) {
	count, pos, err := readUvarint(src, pos)
	if err != nil {
		return nil, pos, err
	}
	if count > isofam.MaxNodes+1 {
		return nil, pos, errors.Wrap(isofam.ErrUnmarshal, "catalog state counter overrun")
	}
	counts := make([]uint64, count)
	for i := range counts {
		counts[i], pos, err = readUvarint(src, pos)
		if err != nil {
			return nil, pos, err
		}
	}
	return counts, pos, nil
}

func readUvarint(src []byte, pos int) (uint64, int, error) {
	v, n := binary.Uvarint(src[pos:])
	if n <= 0 {
		return 0, pos, errors.Wrap(isofam.ErrUnmarshal, "bad catalog state varint")
	}
	return v, pos + n, nil
}
