// Package tlist is the span-based exploratory draft: a skip list that grows
// its own levels organically as a traversal walks past a configured span of
// nodes, instead of drawing a random height up front, and soft-deletes via a
// del flag instead of splicing nodes out.
package tlist

import (
	"github.com/hakuto838/indexskip/skiplist"
)

const (
	maxLevel = 32
)

type tNode struct {
	index skiplist.Index
	next  []*tNode
	del   bool
}

// TList is a span-based auto-leveling skip list ordered by an externally
// supplied Comparator.
type TList struct {
	head    *tNode
	level   int32
	size    int32
	span    int32
	compare skiplist.Comparator
}

func newNode(index skiplist.Index, level int32) *tNode {
	return &tNode{
		index: index,
		next:  make([]*tNode, level+1),
		del:   false,
	}
}

// NewSkipList builds an empty list ordered by compare. span is the number of
// nodes a traversal must pass at a level before the node it lands on earns a
// promotion to the level above.
func NewSkipList(span int32, compare skiplist.Comparator) *TList {
	return &TList{
		head:    newNode(0, maxLevel+1),
		level:   1,
		span:    span,
		compare: compare,
	}
}

func (sl *TList) pureTravel(index skiplist.Index) (*tNode, bool) {
	curr := sl.head
	for level := sl.level - 1; level >= 0; level-- {
		for curr.next[level] != nil && sl.compare(curr.next[level].index, index) < 0 {
			curr = curr.next[level]
		}
		if curr.next[level] != nil && sl.compare(curr.next[level].index, index) == 0 {
			return curr.next[level], true
		}
	}
	return curr, false
}

func (sl *TList) buildTravel(index skiplist.Index) (*tNode, bool) {
	curr := sl.head
	stepCounter := int32(0)
	var stationPointer *tNode = sl.head
	for level := sl.level - 1; level >= 0; level-- {
		for curr.next[level] != nil && sl.compare(curr.next[level].index, index) < 0 {
			curr = curr.next[level]

			stepCounter++
			if stepCounter >= sl.span && level < maxLevel {
				// 升階判定
				if curr.next[level] == nil || curr.next[level].GetLevel() <= level {
					curr.upgrade(stationPointer)
					stationPointer = curr
					if level == sl.level-1 {
						sl.level++
					}
				}
				stepCounter = 0
			}
		}
		if curr.next[level] != nil && sl.compare(curr.next[level].index, index) == 0 {
			return curr.next[level], true
		}
		stationPointer = curr
		stepCounter = 0
	}
	return curr, false
}

func (nd *tNode) upgrade(parent *tNode) {
	if nd.GetLevel() >= parent.GetLevel() {
		return
	}
	lvl := int(nd.GetLevel()) + 1
	nd.next = append(nd.next, parent.next[lvl])
	parent.next[lvl] = nd
}

// Insert 插入 index，若已被軟刪除則復原
func (sl *TList) Insert(index skiplist.Index) {
	node, found := sl.buildTravel(index)
	if found {
		if node.del {
			sl.size++
		}
		node.del = false
		return
	}

	newNode := newNode(index, 0)
	newNode.next[0] = node.next[0]
	node.next[0] = newNode
	sl.size++
}

// Contains 判斷 index 是否存在
func (sl *TList) Contains(index skiplist.Index) bool {
	node, found := sl.buildTravel(index)
	return found && !node.del
}

// Remove 軟刪除 index
func (sl *TList) Remove(index skiplist.Index) {
	node, found := sl.buildTravel(index)
	if found && !node.del {
		node.del = true
		sl.size--
	}
}

// Size 回傳目前存活節點數
func (sl *TList) Size() int {
	return int(sl.size)
}

// GetHead 實現 Analyable 介面
func (sl *TList) GetHead() skiplist.Nodelike {
	if sl.head == nil {
		return nil
	}
	return sl.head
}

func (nd *tNode) GetLevel() int32 {
	return int32(len(nd.next) - 1)
}

// GetIndex 實現 Nodelike 介面
func (nd *tNode) GetIndex() skiplist.Index {
	return nd.index
}

func (nd *tNode) GetNextAt(level int32) skiplist.Nodelike {
	if level < 0 || level >= int32(len(nd.next)) || nd.next[level] == nil {
		return nil
	}
	return nd.next[level]
}

func (sl *TList) GetMaxStats() (int, int) {
	return int(sl.size), int(sl.level)
}
