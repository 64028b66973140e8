// Package la is the frequency-aware exploratory draft: a node-pointer skip
// list over skiplist.Index that, given a predicted future access frequency
// for an index, grants it a taller starting height than a coin-flip would —
// "locality-aware" promotion, kept alongside the traditional coin-flip path
// for comparison.
package la

import (
	"math"
	"math/rand"

	"github.com/hakuto838/indexskip/skiplist"
)

const (
	maxLevel    = 32
	probability = 0.5
)

type laNode struct {
	index skiplist.Index
	next  []*laNode
}

// LASkipList is a node-pointer skip list ordered by an externally supplied
// Comparator, with an additional frequency-weighted insertion path.
type LASkipList struct {
	head    *laNode
	level   int32
	rand    *rand.Rand
	size    int32
	compare skiplist.Comparator
}

func newNode(index skiplist.Index, level int32) *laNode {
	return &laNode{
		index: index,
		next:  make([]*laNode, level+1),
	}
}

// NewLASkipList builds an empty list ordered by compare.
func NewLASkipList(seed int64, compare skiplist.Comparator) *LASkipList {
	return &LASkipList{
		head:    newNode(0, maxLevel),
		level:   0,
		rand:    rand.New(rand.NewSource(seed)),
		compare: compare,
	}
}

// randomLevelWithNP 基於預測頻率計算節點高度
// np: 預測的未來出現頻率 (n * prob)
func (sl *LASkipList) randomLevelWithNP(np float64) int32 {
	lvl := 0

	for lvl < maxLevel {
		l := lvl + 1

		if np >= math.Pow(2, float64(l-1)) {
			lvl++
		} else {
			if sl.rand.Float64() < probability {
				lvl++
			} else {
				break
			}
		}
	}

	return int32(lvl)
}

func (sl *LASkipList) find(index skiplist.Index) (*laNode, bool) {
	cur := sl.head
	for h := sl.level; h >= 0; h-- {
		for cur.next[h] != nil && sl.compare(cur.next[h].index, index) < 0 {
			cur = cur.next[h]
		}
		if cur.next[h] != nil && sl.compare(cur.next[h].index, index) == 0 {
			return cur.next[h], true
		}
	}
	return nil, false
}

// InsertWithFrequency inserts index, granting it a starting height derived
// from np, its predicted future access frequency. Inserting an index already
// live is a no-op.
func (sl *LASkipList) InsertWithFrequency(index skiplist.Index, np float64) {
	if _, found := sl.find(index); found {
		return
	}

	lvl := sl.randomLevelWithNP(np)
	node := newNode(index, lvl)
	sl.level = max(sl.level, lvl)

	curr := sl.head
	for h := sl.level; h >= 0; h-- {
		for curr.next[h] != nil && sl.compare(curr.next[h].index, index) < 0 {
			curr = curr.next[h]
		}
		if h <= lvl {
			node.next[h] = curr.next[h]
			curr.next[h] = node
		}
	}
	sl.size++
}

// Insert implements skiplist.Ordered using the traditional coin-flip height,
// ignoring any frequency prediction.
func (sl *LASkipList) Insert(index skiplist.Index) {
	sl.insertWithoutProb(index)
}

func (sl *LASkipList) insertWithoutProb(index skiplist.Index) {
	if _, found := sl.find(index); found {
		return
	}

	lvl := sl.randomLevel()
	node := newNode(index, lvl)
	sl.level = max(sl.level, lvl)

	curr := sl.head
	for h := sl.level; h >= 0; h-- {
		for curr.next[h] != nil && sl.compare(curr.next[h].index, index) < 0 {
			curr = curr.next[h]
		}
		if h <= lvl {
			node.next[h] = curr.next[h]
			curr.next[h] = node
		}
	}
	sl.size++
}

// 傳統的隨機高度計算方法
func (sl *LASkipList) randomLevel() int32 {
	lvl := 0
	for sl.rand.Float64() < probability && lvl < maxLevel {
		lvl++
	}
	return int32(lvl)
}

// Contains reports whether index is live.
func (sl *LASkipList) Contains(index skiplist.Index) bool {
	_, found := sl.find(index)
	return found
}

// Remove deletes index. Removing an absent index is a no-op.
func (sl *LASkipList) Remove(index skiplist.Index) {
	if _, found := sl.find(index); !found {
		return
	}
	curh := sl.level
	curr := sl.head

	for h := curh; h >= 0; h-- {
		for curr.next[h] != nil && sl.compare(curr.next[h].index, index) < 0 {
			curr = curr.next[h]
		}
		if curr.next[h] != nil && sl.compare(curr.next[h].index, index) == 0 {
			curr.next[h] = curr.next[h].next[h]
		}
	}

	newlvl := curh
	for newlvl > 0 && sl.head.next[newlvl] == nil {
		newlvl--
	}
	sl.level = newlvl
	sl.size--
}

func max(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// Size reports the number of live elements.
func (sl *LASkipList) Size() int {
	return int(sl.size)
}

// GetMaxStats reports (size, highest level in use).
func (sl *LASkipList) GetMaxStats() (int, int) {
	return int(sl.size), int(sl.level)
}

// GetHead returns the sentinel head node.
func (sl *LASkipList) GetHead() skiplist.Nodelike {
	return sl.head
}

// GetIndex implements skiplist.Nodelike.
func (n *laNode) GetIndex() skiplist.Index {
	return n.index
}

func (n *laNode) GetLevel() int32 {
	return int32(len(n.next) - 1)
}

func (n *laNode) GetNextAt(level int32) skiplist.Nodelike {
	if level < 0 || level >= int32(len(n.next)) {
		return nil
	}
	if n.next[level] == nil {
		return nil
	}
	return n.next[level]
}
