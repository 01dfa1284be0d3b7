// Package catalog is a badger-backed signature catalog.
//
// It implements the same insert-if-new contract as the in-memory store, but
// keeps its buckets in an LSM keyspace so an enumeration run can spill to disk
// (or run against a throwaway in-memory db).
//
// Key layout:
//
//	gCatalogStateKey                            => CatalogState
//	[Nv][signature hex][NUL][NUL]               => nil           (bucket header)
//	[Nv][signature hex][NUL][NUL][state enc]    => state enc     (bucket member)
//
// Signatures are hex strings, so the double-NUL suffix unambiguously ends a
// bucket header, and every member of a bucket shares the header as a key
// prefix.  Ordering by leading node count lets Select scan one size range.
package catalog

import (
	"runtime"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/isofam-systems/isofam/isofam"
	"github.com/isofam-systems/isofam/libfam"
	"github.com/isofam-systems/isofam/libfam/sig"
)

var gCatalogStateKey = []byte{0x00, 0x00, 0x01}

type catalog struct {
	ctx        isofam.CatalogContext
	readOnly   bool
	stateDirty bool
	state      CatalogState
	db         *badger.DB
	oracle     isofam.Oracle
}

// OpenCatalog opens (or creates) a signature catalog and attaches it to ctx.
// An empty CatalogOpts.DbPathName opens a throwaway in-memory db.
func OpenCatalog(ctx isofam.CatalogContext, opts isofam.CatalogOpts) (isofam.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
		oracle:   opts.Oracle,
	}
	if cat.oracle == nil {
		cat.oracle = libfam.NewOracle()
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // single writer, so skip the bookkeeping
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(isofam.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, the catalog ctx holds this catalog until it closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = 2026
		cat.state.MinorVers = 1
		cat.state.NumSigs = make([]uint64, isofam.MaxNodes+1)
		cat.state.NumGraphs = make([]uint64, isofam.MaxNodes+1)
	}

	if err == nil && (cat.state.MajorVers != 2026 || cat.state.MinorVers != 1) {
		err = errors.New("catalog version is incompatible")
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumSignatures(forNodeCount byte) int64 {
	if forNodeCount == 0 || int(forNodeCount) >= len(cat.state.NumSigs) {
		return 0
	}
	return int64(cat.state.NumSigs[forNodeCount])
}

func (cat *catalog) NumGraphs(forNodeCount byte) int64 {
	if forNodeCount == 0 || int(forNodeCount) >= len(cat.state.NumGraphs) {
		return 0
	}
	return int64(cat.state.NumGraphs[forNodeCount])
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return cat.state.Unmarshal(val)
			})
		}
		return err
	})
}

func (cat *catalog) flushState() {
	if !cat.stateDirty || cat.readOnly {
		return
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		var scrap [256]byte
		return txn.Set(gCatalogStateKey, cat.state.Marshal(scrap[:0]))
	})
	if err != nil {
		panic(err)
	}
	cat.stateDirty = false
}

func (cat *catalog) Close() error {
	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
		cat.ctx = nil
	}
	return nil
}

// formBucketKey appends [Nv][signature][NUL][NUL] to key.
func formBucketKey(key []byte, X *isofam.Graph) []byte {
	tag, err := sig.Signature(X, 1, sig.AutoIterations)
	if err != nil {
		panic(err) // fixed k and iterations cannot violate the signature contract
	}
	key = append(key, byte(X.NodeCount()))
	key = append(key, tag...)
	key = append(key, 0, 0)
	return key
}

// TryAddGraph adds the given graph if no isomorphic equivalent is already stored.
//
// If true is returned, X was not present and was added.
func (cat *catalog) TryAddGraph(X *isofam.Graph) bool {
	if cat.readOnly {
		return false
	}

	var keyBuf, valBuf [256]byte
	bucketKey := formBucketKey(keyBuf[:0], X)
	memberKey := X.AppendStateEncoding(bucketKey)

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	isNewBucket := false
	isNewGraph := false

	_, err := txn.Get(bucketKey)
	if err == badger.ErrKeyNotFound {
		isNewBucket = true
		isNewGraph = true
	} else if err != nil {
		panic(err)
	} else {
		_, err = txn.Get(memberKey)
		if err == badger.ErrKeyNotFound {
			// Same bucket but not the identical labeled encoding: only the
			// oracle can decide whether X is genuinely new.
			isNewGraph = !cat.bucketHasIsomorph(txn, bucketKey, X)
		} else if err != nil {
			panic(err)
		}
	}

	if !isNewGraph {
		return false
	}

	Nv := X.NodeCount()
	if isNewBucket {
		if err := txn.Set(bucketKey, nil); err != nil {
			panic(err)
		}
		cat.state.NumSigs[Nv]++
	}
	if err := txn.Set(memberKey, X.AppendStateEncoding(valBuf[:0])); err != nil {
		panic(err)
	}
	cat.state.NumGraphs[Nv]++
	cat.stateDirty = true

	if err := txn.Commit(); err != nil {
		panic(err)
	}
	return true
}

// bucketHasIsomorph walks the members of a bucket and reports whether any is
// isomorphic to X.
func (cat *catalog) bucketHasIsomorph(txn *badger.Txn, bucketKey []byte, X *isofam.Graph) bool {
	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   100,
		Prefix:         append([]byte(nil), bucketKey...),
	})
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		if item.ValueSize() == 0 {
			continue // bucket header
		}

		var G *isofam.Graph
		err := item.Value(func(val []byte) error {
			var decodeErr error
			G, decodeErr = isofam.NewGraphFromEncoding(val)
			return decodeErr
		})
		if err != nil {
			panic(err)
		}

		hit := cat.oracle.IsIsomorphic(X, G)
		G.Reclaim()
		if hit {
			return true
		}
	}
	return false
}

// Select pushes every stored graph within the selector's node count bounds
// onto onHit, in ascending (node count, signature) order.
//
// Ownership of each pushed Graph transfers to the receiver.
func (cat *catalog) Select(sel isofam.GraphSelector, onHit isofam.OnGraphHit) {
	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   300,
	})
	defer it.Close()

	minKey := [1]byte{sel.MinNodes}
	if sel.MinNodes == 0 {
		minKey[0] = 1 // key 0x00 prefixes the state record
	}

	for it.Seek(minKey[:]); it.Valid(); it.Next() {
		item := it.Item()
		if item.Key()[0] > sel.MaxNodes {
			break
		}
		if item.ValueSize() == 0 {
			continue // bucket header
		}

		err := item.Value(func(val []byte) error {
			X, decodeErr := isofam.NewGraphFromEncoding(val)
			if decodeErr != nil {
				return decodeErr
			}
			onHit <- X
			return nil
		})
		if err != nil {
			panic(err)
		}
	}
}
