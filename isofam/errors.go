package isofam

import "errors"

// Errors
var (
	ErrUnmarshal       = errors.New("unmarshal failed")
	ErrBadCatalogParam = errors.New("bad catalog param")
	ErrBadEncoding     = errors.New("bad graph encoding")
	ErrBadNodeID       = errors.New("bad graph node ID")
	ErrBadEdge         = errors.New("bad graph edge")
	ErrGraphFull       = errors.New("graph node limit exceeded")
	ErrNilGraph        = errors.New("nil graph")
	ErrBadDim          = errors.New("refinement dimension must be >= 1")
	ErrBadIterations   = errors.New("iterations must be AutoIterations or >= 1")
	ErrBadMaxSize      = errors.New("max size must be >= 1")
)
