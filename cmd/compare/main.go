package main

import (
	"fmt"

	"github.com/hakuto838/indexskip/datastream"
	"github.com/hakuto838/indexskip/skiplist"
	"github.com/hakuto838/indexskip/skiplist/analyTool"
	"github.com/hakuto838/indexskip/skiplist/Tlist"
	"github.com/hakuto838/indexskip/skiplist/basic"
	"github.com/hakuto838/indexskip/skiplist/la"
	"github.com/hakuto838/indexskip/skiplist/splay"
)

func insertSequential(sl skiplist.Ordered, indices map[skiplist.Index]float64) {
	for idx := range indices {
		sl.Insert(idx)
	}
}

func testOne(name string, sl skiplist.Analyable, weights map[skiplist.Index]float64) {
	fmt.Printf("=== %s ===\n", name)
	score, _ := analyTool.AnalyzeStep(sl, weights)
	fmt.Printf("score: %.6f\n\n", score)
	analyTool.PrintSkipList(sl, 8, 35)
}

func main() {
	const n = 900
	const seed = 42

	// Zipf distribution for analysis: GetIndexSet is the per-index access
	// weight table every draft's insertion order and the scoring pass both
	// read from.
	gen := datastream.NewZipfDataGenerator(n, 1.07, 1.0, seed)
	weights := gen.GetIndexSet()

	// Basic
	basicSL := basic.NewBasicSkipList(seed, skiplist.Natural)
	insertSequential(basicSL, weights)
	testOne("basic", basicSL, weights)

	// Splay: insert first, then run probe queries to train its hit counts
	// (Zipf-shaped traffic simulates hotspots) before scoring.
	splaySL := splay.NewSplayList(1, skiplist.Natural)
	insertSequential(splaySL, weights)

	seq := gen.GenerateSequence(n * 10)
	for _, idx := range seq {
		splaySL.Contains(idx)
	}
	testOne("splay", splaySL, weights)

	// LA skip list: insert with a frequency hint derived straight from the
	// Zipf weight, rather than a plain coin flip.
	laSL := la.NewLASkipList(seed, skiplist.Natural)
	for idx, prob := range weights {
		np := float64(n) * prob
		laSL.InsertWithFrequency(idx, np)
	}
	testOne("la", laSL, weights)

	// Tlist: grows a node's height as traversals pass a configured span,
	// instead of drawing a random level at insertion.
	tlistSL := tlist.NewSkipList(4, skiplist.Natural)
	insertSequential(tlistSL, weights)
	testOne("tlist", tlistSL, weights)
}
