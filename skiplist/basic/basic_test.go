package basic

import (
	"testing"

	"github.com/hakuto838/indexskip/datastream"
	"github.com/hakuto838/indexskip/skiplist"
	"github.com/hakuto838/indexskip/skiplist/analyTool"
)

func TestBasicSkipListInterface(t *testing.T) {
	var _ skiplist.Ordered = (*BasicSkipList)(nil)
	var _ skiplist.Analyable = (*BasicSkipList)(nil)
	var _ skiplist.Nodelike = (*basicNode)(nil)
}

func TestBasicSkipListBasic(t *testing.T) {
	sl := NewBasicSkipList(42, skiplist.Natural)
	sl.Insert(1)
	sl.Insert(2)
	sl.Insert(3)

	if !sl.Contains(2) {
		t.Fatalf("expected 2 to be live")
	}
	analyTool.PrintSkipList(sl, 5, 10)
}

func TestBigZipf(t *testing.T) {
	data := datastream.NewZipfDataGenerator(100000, 1.5, 1, 42)
	sl := NewBasicSkipList(42, skiplist.Natural)
	for idx := range data.GetIndexSet() {
		sl.Insert(idx)
	}
	for range 100000 {
		sl.Contains(data.Next())
	}
	analyTool.PrintSkipList(sl, 5, 10)
}
