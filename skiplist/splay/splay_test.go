package splay

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hakuto838/indexskip/datastream"
	"github.com/hakuto838/indexskip/skiplist"
	"github.com/hakuto838/indexskip/skiplist/analyTool"
	"github.com/hakuto838/indexskip/skiplist/basic"
)

func TestSplaySkipList(t *testing.T) {
	sl := NewSplayList(1, skiplist.Natural)

	sl.Insert(1)
	sl.Insert(2)
	sl.Insert(3)

	analyTool.PrintSkipList(sl, 5, 10)

	if !sl.Contains(1) {
		t.Error("Contains(1) = false, want true")
	}

	if !sl.Contains(2) {
		t.Error("Contains(2) = false, want true")
	}

	sl.Remove(2)
	if sl.Contains(2) {
		t.Error("Contains(2) = true after remove, want false")
	}
}

func TestSplayListPrint(t *testing.T) {
	sl := NewSplayList(0.5, skiplist.Natural)
	for i := 0; i < 15; i++ {
		sl.Insert(skiplist.Index(i))
	}

	// data := datastream.NewZipfDataGenerator(15, 1.5, 1, 42)
	// for iter := 0; iter < 10000; iter++ {
	// 	sl.Contains(data.Next())
	// }
	analyTool.PrintSkipList(sl, 5, 20)
	analyTool.CountLevel(sl)
}

func TestSplayAnalysis(t *testing.T) {
	data := datastream.NewZipfDataGenerator(15, 1.5, 1, 42)
	sl := NewSplayList(0.1, skiplist.Natural)

	for idx := range data.GetDistribute() {
		sl.Insert(idx)
	}

	for range 10000 {
		sl.Contains(data.Next())
	}

	analyTool.PrintSkipList(sl, 5, 10)

	weights := make(map[skiplist.Index]float64)
	for idx, w := range data.GetDistribute() {
		weights[idx] = w
	}
	score, pstep := analyTool.AnalyzeStep(sl, weights)
	fmt.Printf("score: %f\n", score)

	pstep.Print()
}

func TestSplayListCSV(t *testing.T) {
	sl := NewSplayList(0.01, skiplist.Natural)
	const N = 20
	for i := 0; i < N; i++ {
		sl.Insert(skiplist.Index(i))
	}

	data := datastream.NewZipfDataGenerator(N, 1.5, 1, 42)
	for iter := 0; iter < 10000; iter++ {
		sl.Contains(data.Next())
	}
	analyTool.PrintSkipList(sl, 20, 15)

	analyTool.CountLevel(sl)
	// sl.PrintHits()

	tmp := t.TempDir()

	file, err := os.Create(filepath.Join(tmp, "splay_skiplist.csv"))
	if err != nil {
		t.Fatalf("無法建立檔案: %s", err)
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	analyTool.PrintSkipListToCSV(sl, 5, 10, writer)
	writer.Flush()

	weights := make(map[skiplist.Index]float64)
	for idx, w := range data.GetDistribute() {
		weights[idx] = w
	}
	_, pstep := analyTool.AnalyzeStep(sl, weights)

	file2, err := os.Create(filepath.Join(tmp, "splay_stepmap.csv"))
	if err != nil {
		t.Fatalf("無法建立檔案: %s", err)
	}
	defer file2.Close()
	writer2 := csv.NewWriter(file2)
	pstep.PrintToCSV(writer2)
	writer2.Flush()
}

func TestSplayAndBasicSeq(t *testing.T) {
	// 用來檢查 splay 與 basic 差異
	const N = 100000

	dataGen := datastream.NewZipfDataGenerator(N, 1.5, 1, 42)
	basicSL := basic.NewBasicSkipList(42, skiplist.Natural)
	splaySL := NewSplayList(1, skiplist.Natural)

	weights := dataGen.GetIndexSet()

	for idx := range weights {
		basicSL.Insert(idx)
		splaySL.Insert(idx)
	}

	//training
	seq := dataGen.GenerateSequence(N * 10)
	for _, idx := range seq {
		splaySL.Contains(idx)
	}

	fmt.Println("basic structure")
	analyTool.PrintSkipList(basicSL, 8, 15)
	scorebasic, _ := analyTool.AnalyzeStep(basicSL, weights)
	fmt.Printf("basic score: %f\n\n", scorebasic)

	fmt.Println("splay structure")
	analyTool.PrintSkipList(splaySL, 8, 15)
	scoresplay, _ := analyTool.AnalyzeStep(splaySL, weights)
	fmt.Printf("splay score: %f\n\n", scoresplay)
}
