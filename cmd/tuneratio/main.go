package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/hakuto838/indexskip/datastream"
	"github.com/hakuto838/indexskip/saalgo"
	"github.com/hakuto838/indexskip/skiplist"
	"github.com/hakuto838/indexskip/skiplist/indexed"
)

// ratioSolution is one candidate promotion ratio for the CORE, scored by
// replaying a recorded workload against a freshly built skiplist/indexed
// instance and timing it. It implements saalgo.Solution so
// saalgo.SimulatedAnnealing can search the ratio space directly instead of
// an exhaustive grid walk.
type ratioSolution struct {
	ratio    float64
	capacity uint32
	benches  []*datastream.BenchFile
	runs     int
	rng      *rand.Rand
	step     float64
}

const (
	minRatio = 0.01
	maxRatio = 0.99
)

func (r *ratioSolution) Clone() saalgo.Solution {
	return &ratioSolution{
		ratio:    r.ratio,
		capacity: r.capacity,
		benches:  r.benches,
		runs:     r.runs,
		rng:      r.rng,
		step:     r.step,
	}
}

func (r *ratioSolution) GetCost() float64 {
	var totalMs float64
	for _, bf := range r.benches {
		var fileMs float64
		for i := 0; i < r.runs; i++ {
			sl, err := indexed.New(r.capacity, r.ratio, skiplist.Natural)
			if err != nil {
				log.Fatalf("construct core skip list at ratio=%.6f: %v", r.ratio, err)
			}
			start := time.Now()
			for _, op := range bf.Ops {
				switch op.Type {
				case datastream.OpQuery:
					sl.Search(func(x skiplist.Index) int { return skiplist.Natural(op.Index, x) })
				case datastream.OpInsert:
					sl.Insert(op.Index)
				case datastream.OpDelete:
					sl.Remove(op.Index)
				}
			}
			fileMs += float64(time.Since(start).Microseconds()) / 1000.0
		}
		totalMs += fileMs / float64(r.runs)
	}
	return totalMs
}

// GenerateNeighbor perturbs ratio by a Gaussian step, clamped to the open
// interval the CORE's constructor accepts for a promotion ratio, (0, 1).
func (r *ratioSolution) GenerateNeighbor() saalgo.Solution {
	next := r.ratio + r.rng.NormFloat64()*r.step
	if next < minRatio {
		next = minRatio
	}
	if next > maxRatio {
		next = maxRatio
	}
	return &ratioSolution{
		ratio:    next,
		capacity: r.capacity,
		benches:  r.benches,
		runs:     r.runs,
		rng:      r.rng,
		step:     r.step,
	}
}

func main() {
	var benchPath string
	var benchDir string
	var runs int
	var initialTemp, finalTemp, coolingRate float64
	var iterationsPerTemp, maxIterations int
	var step float64
	var seed int64
	var startRatio float64
	var outputCSV string

	flag.StringVar(&benchPath, "bench", "", "single benchmark streamfile")
	flag.StringVar(&benchDir, "benchdir", "", "directory of benchmark streamfiles (all .bin files)")
	flag.IntVar(&runs, "runs", 3, "replays per candidate ratio, averaged")
	flag.Float64Var(&initialTemp, "initialTemp", 50.0, "initial annealing temperature")
	flag.Float64Var(&finalTemp, "finalTemp", 0.05, "final annealing temperature")
	flag.Float64Var(&coolingRate, "coolingRate", 0.9, "temperature multiplier per cooling step")
	flag.IntVar(&iterationsPerTemp, "iterationsPerTemp", 8, "neighbor trials per temperature")
	flag.IntVar(&maxIterations, "maxIterations", 400, "hard cap on total trials")
	flag.Float64Var(&step, "step", 0.08, "standard deviation of the Gaussian neighbor step")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for the annealing RNG")
	flag.Float64Var(&startRatio, "start", 0.5, "initial ratio to anneal from")
	flag.StringVar(&outputCSV, "csv", "", "optional path to write the convergence trace")
	flag.Parse()

	var benchPaths []string
	if benchDir != "" {
		files, err := filepath.Glob(filepath.Join(benchDir, "*.bin"))
		if err != nil {
			log.Fatalf("scan directory: %v", err)
		}
		if len(files) == 0 {
			log.Fatalf("no .bin files found in directory: %s", benchDir)
		}
		benchPaths = files
	} else if benchPath != "" {
		benchPaths = []string{benchPath}
	} else {
		log.Fatal("provide -bench or -benchdir")
	}

	benches := make([]*datastream.BenchFile, 0, len(benchPaths))
	var maxIndex skiplist.Index
	totalOps := 0
	for _, p := range benchPaths {
		bf, err := datastream.ReadBenchFile(p)
		if err != nil {
			log.Fatalf("read bench file %s: %v", p, err)
		}
		benches = append(benches, bf)
		totalOps += len(bf.Ops)
		for idx := range bf.Dist {
			if idx > maxIndex {
				maxIndex = idx
			}
		}
	}
	fmt.Printf("loaded %d benchmark file(s), %d total ops, capacity %d\n", len(benches), totalOps, maxIndex+1)

	var csvWriter *csv.Writer
	if outputCSV != "" {
		f, err := os.Create(outputCSV)
		if err != nil {
			log.Fatalf("create csv: %v", err)
		}
		defer f.Close()
		csvWriter = csv.NewWriter(f)
		defer csvWriter.Flush()
		csvWriter.Write([]string{"iteration", "temperature", "bestCost", "currentCost"})
	}

	config := &saalgo.SAConfig{
		InitialTemp:      initialTemp,
		FinalTemp:        finalTemp,
		CoolingRate:      coolingRate,
		Iterations:       iterationsPerTemp,
		MaxIterations:    maxIterations,
		RandomSeed:       seed,
		ProgressInterval: 1,
		ProgressCallback: func(iteration, maxIterations int, temperature, bestCost, currentCost float64) {
			fmt.Printf("[%4d/%4d] T=%.4f best=%.3fms current=%.3fms\n", iteration, maxIterations, temperature, bestCost, currentCost)
			if csvWriter != nil {
				csvWriter.Write([]string{
					fmt.Sprintf("%d", iteration),
					fmt.Sprintf("%.6f", temperature),
					fmt.Sprintf("%.3f", bestCost),
					fmt.Sprintf("%.3f", currentCost),
				})
			}
		},
	}

	sa := saalgo.NewSimulatedAnnealing(config)
	initial := &ratioSolution{
		ratio:    startRatio,
		capacity: uint32(maxIndex) + 1,
		benches:  benches,
		runs:     runs,
		rng:      rand.New(rand.NewSource(seed)),
		step:     step,
	}

	best, bestCost := sa.Run(initial)
	bestRatio := best.(*ratioSolution).ratio

	fmt.Println()
	fmt.Printf("best ratio = %.6f, cost = %.3f ms over %d trial(s)\n", bestRatio, bestCost, sa.GetIterations())
	fmt.Printf("use it with: indexed.New(capacity, %.6f, compare)\n", bestRatio)
}
