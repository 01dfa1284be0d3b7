package libfam

import (
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"github.com/isofam-systems/isofam/isofam"
)

// EdgeListExpr matches the textual form a family file holds per line:
// "[(0, 1), (1, 2), (3, )]" -- each pair is an edge between zero-based node
// IDs, and "(n, )" lists a node with no incident edges.
type EdgeListExpr struct {
	Entries []*EdgeEntry `parser:"'[' (@@ (',' @@)*)? ']'"`
}

type EdgeEntry struct {
	From int  `parser:"'(' @Int ','"`
	To   *int `parser:"@Int? ')'"`
}

var parseEdgeList = participle.MustBuild[EdgeListExpr]()

// ParseGraph builds a pooled Graph from its edge list text.
// Node IDs must be dense: the node count is the highest ID seen plus one.
func ParseGraph(edgeList string) (*isofam.Graph, error) {
	X := isofam.NewGraph(nil)
	if err := InitGraphFromString(X, edgeList); err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}

// InitGraphFromString resets X from edge list text.
func InitGraphFromString(X *isofam.Graph, edgeList string) error {
	X.Init(nil)

	expr, err := parseEdgeList.ParseString("", edgeList)
	if err != nil {
		return err
	}

	maxID := -1
	for _, entry := range expr.Entries {
		if entry.From > maxID {
			maxID = entry.From
		}
		if entry.To != nil && *entry.To > maxID {
			maxID = *entry.To
		}
	}
	if maxID >= isofam.MaxNodes {
		return errors.Wrapf(isofam.ErrBadNodeID, "node %d exceeds the %d node limit", maxID, isofam.MaxNodes)
	}

	for n := 0; n <= maxID; n++ {
		X.AddNode()
	}
	for _, entry := range expr.Entries {
		if entry.To == nil {
			continue
		}
		if err := X.AddEdge(isofam.NodeID(entry.From), isofam.NodeID(*entry.To)); err != nil {
			return errors.Wrapf(err, "edge (%d, %d)", entry.From, *entry.To)
		}
	}
	return nil
}
