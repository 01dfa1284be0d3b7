package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/plan-systems/klog"

	"github.com/isofam-systems/isofam/isofam"
	"github.com/isofam-systems/isofam/libfam"
	"github.com/isofam-systems/isofam/libfam/catalog"
	"github.com/isofam-systems/isofam/libfam/sig"
)

func main() {

	flag.Set("logtostderr", "true")
	flag.Set("v", "2")

	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	size := flag.Int("size", 0, "size of graphs to generate (required)")
	all := flag.Bool("all", false, "also report families with a single member")
	outRoot := flag.String("out", ".", "root directory for family files")
	dbPath := flag.String("db", "", "enumerate into a badger catalog at this path")
	graphExpr := flag.String("graph", "", "print the signature of the given edge list and exit")
	kDim := flag.Int("k", 1, "WL refinement dimension for -graph")
	iters := flag.Int("iters", sig.AutoIterations, "WL refinement rounds for -graph (0 runs to the stable partition)")

	flag.Parse()

	if *graphExpr != "" {
		printSignature(*graphExpr, *kDim, *iters)
		klog.Flush()
		return
	}

	if *size < 1 {
		fmt.Fprintln(os.Stderr, "Error: the -size argument is required and must be >= 1.")
		os.Exit(1)
	}

	klog.Infof("generating graphs of size %d", *size)
	start := time.Now()

	var (
		fams *isofam.FamilySet
		err  error
	)
	if *dbPath != "" {
		fams, err = generateIntoCatalog(*dbPath, *size)
	} else {
		fams, err = libfam.Generate(*size)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	klog.Infof("found %d unique graphs in %v", fams.NumFamilies(), time.Since(start))

	fams = libfam.FilterFamilies(fams, *size, *all)
	klog.Infof("found %d unique graph classes of size %d", fams.NumFamilies(), *size)

	if err := writeFamilies(*outRoot, *size, fams); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fams.Reclaim()
	klog.Flush()
}

func printSignature(edgeList string, k, iterations int) {
	X, err := libfam.ParseGraph(edgeList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer X.Reclaim()

	tag, err := sig.Signature(X, k, iterations)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tag)
}

// generateIntoCatalog enumerates through a badger-backed catalog, then streams
// the stored graphs back out and regroups them into families by signature.
func generateIntoCatalog(dbPath string, size int) (*isofam.FamilySet, error) {
	ctx := isofam.NewCatalogContext()
	cat, err := catalog.OpenCatalog(ctx, isofam.CatalogOpts{
		DbPathName: dbPath,
	})
	if err != nil {
		return nil, err
	}

	if err := libfam.EnumerateInto(cat, size); err != nil {
		cat.Close()
		ctx.Close()
		<-ctx.Done()
		return nil, err
	}

	fams := isofam.NewFamilySet()
	stream := isofam.SelectFromCatalog(cat, isofam.DefaultGraphSelector)
	for X := range stream.Outlet {
		tag, err := sig.Signature(X, 1, sig.AutoIterations)
		if err != nil {
			X.Reclaim()
			continue
		}
		fams.Add(tag, X)
	}

	cat.Close()
	ctx.Close()
	<-ctx.Done()
	return fams, nil
}

// writeFamilies writes one file per family under <outRoot>/graphs_<size>/,
// named by family index, one edge list line per member graph.
func writeFamilies(outRoot string, size int, fams *isofam.FamilySet) error {
	dir := filepath.Join(outRoot, fmt.Sprintf("graphs_%d", size))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for i, tag := range fams.Tags {
		file, err := os.Create(filepath.Join(dir, fmt.Sprintf("family_%d.txt", i)))
		if err != nil {
			return err
		}
		for _, X := range fams.Families[tag] {
			if _, err := X.WriteAsString(file); err != nil {
				file.Close()
				return err
			}
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}
