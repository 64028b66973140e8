// Package splay is the hit-counting exploratory draft: a skip list that
// dynamically rebalances itself based on per-node access counts instead of
// coin-flip promotion, splaying hot indices upward the way a splay tree
// splays hot keys toward the root.
package splay

import (
	"math/rand"

	// "sync"

	"github.com/hakuto838/indexskip/skiplist"
)

const MAX_LEVEL = 32 // 根據實際需求調整

type SplayNode struct {
	index     skiplist.Index
	zeroLevel int32
	topLevel  int32
	selfhits  int32
	next      [MAX_LEVEL + 1]*SplayNode
	hits      [MAX_LEVEL + 1]int32
	deleted   bool
}

// SplayList is a hit-counting skip list ordered by an externally supplied
// Comparator.
type SplayList struct {
	m         int32      // 動態計數器，記錄目前操作次數，供 balancing phase 使用
	zeroLevel int32      // 記錄當前 zero level
	head      *SplayNode // 頭節點
	p         float64    // 平衡條件的常數，初始化後不變
	size      int32      // 記錄當前節點數
	compare   skiplist.Comparator
}

// NewSplayList builds an empty list ordered by compare. p is the
// probability that any given access triggers a balancing pass.
func NewSplayList(p float64, compare skiplist.Comparator) *SplayList {
	head := &SplayNode{topLevel: MAX_LEVEL, zeroLevel: MAX_LEVEL - 1}
	for i := 0; i <= MAX_LEVEL; i++ {
		head.next[i] = nil
	}
	return &SplayList{
		head:      head,
		zeroLevel: MAX_LEVEL - 1,
		p:         p,
		compare:   compare,
	}
}

// Contains 函式
func (list *SplayList) Contains(index skiplist.Index) bool {
	node := list.find(index)
	if node == nil {
		return false
	}
	list.tryUpdate(index)
	return !node.deleted
}

// find 函式
func (list *SplayList) find(index skiplist.Index) *SplayNode {
	pred := list.head
	var succ *SplayNode
	for level := int32(MAX_LEVEL - 1); level >= list.zeroLevel; level-- {
		list.updateUpToLevel(pred, level)
		succ = pred.next[level]
		if succ == nil {
			continue
		}
		list.updateUpToLevel(succ, level)
		for succ != nil && list.compare(succ.index, index) < 0 {
			pred = succ
			succ = pred.next[level]
			if succ == nil {
				break
			}
			list.updateUpToLevel(succ, level)
		}
		if succ != nil && list.compare(succ.index, index) == 0 {
			return succ
		}
	}
	return nil
}

// updateUpToLevel 函式
func (list *SplayList) updateUpToLevel(node *SplayNode, level int32) {
	if node == nil {
		return
	}
	if node.zeroLevel <= level {
		return
	}
	for node.zeroLevel > level {
		node.hits[node.zeroLevel-1] = 0
		node.next[node.zeroLevel-1] = node.next[node.zeroLevel]
		node.zeroLevel--
	}
}

// getHits 函式：計算節點在指定層的 hits
func getHits(node *SplayNode, h int32) int32 {
	if node.zeroLevel > h {
		return node.selfhits
	}
	return node.selfhits + node.hits[h]
}

// update 函式：根據論文偽碼實作 balancing phase
func (list *SplayList) update(index skiplist.Index) {
	list.m++

	pred := list.head
	pred.hits[MAX_LEVEL]++
	var prepred, curr *SplayNode
	for level := int32(MAX_LEVEL - 1); level >= list.zeroLevel; level-- {
		list.updateUpToLevel(pred, level)
		prepred = pred
		curr = pred.next[level]
		list.updateUpToLevel(curr, level)
		if curr == nil || list.compare(curr.index, index) > 0 { //走一步就過頭
			pred.hits[level]++
			continue
		}

		found := false
		for curr != nil && list.compare(curr.index, index) <= 0 {
			list.updateUpToLevel(curr, level)

			if curr.next[level] == nil || list.compare(curr.next[level].index, index) > 0 {
				if list.compare(curr.index, index) == 0 {
					found = true
					curr.selfhits++
				} else {
					curr.hits[level]++
				}
				break
			}

			//ascent condition+
			curh := curr.topLevel
			if curh+1 < MAX_LEVEL && curh < prepred.topLevel && prepred.hits[curh+1]-prepred.hits[curh] > list.getAscentThreshold(curh, list.m) {
				for curh+1 < MAX_LEVEL && curh < prepred.topLevel && prepred.hits[curh+1]-prepred.hits[curh] > list.getAscentThreshold(curh, list.m) {
					curr.topLevel++
					curh++
					curr.hits[curh] = prepred.hits[curh] - prepred.hits[curh-1] - curr.selfhits
					curr.next[curh] = prepred.next[curh]
					prepred.hits[curh] = prepred.hits[curh-1]
					prepred.next[curh] = curr
				}
				prepred = curr
				pred = curr
				curr = pred.next[level]
				continue // 升級後無需判定降級

				//descend condition
			} else if curr.topLevel == level && curr.next[level] != nil && list.compare(curr.next[level].index, index) <= 0 &&
				getHits(curr, level)+getHits(pred, level) <= list.getDescentThreshold(level, list.m) {
				currZero := list.zeroLevel
				if level == currZero {
					//擴張
					list.zeroLevel--
				}
				list.updateUpToLevel(curr, level-1)
				list.updateUpToLevel(pred, level-1)

				pred.hits[level] += getHits(curr, level)
				curr.hits[level] = 0
				pred.next[level] = curr.next[level]
				curr.next[level] = nil
				curr.topLevel--
				curr = pred.next[level]
				continue
			}
			//沒上升也沒下降
			pred = curr
			curr = pred.next[level]
		}
		if found {
			return
		}
	} //end for

	// 調試用：若需要驗證 hits 可手動呼叫 CheckHits()
}

func (list *SplayList) getAscentThreshold(h int32, M int32) int32 {
	return M / (1 << (MAX_LEVEL - 1 - h))
}

func (list *SplayList) getDescentThreshold(h int32, M int32) int32 {
	return M / (1 << (MAX_LEVEL - h))
}

// Insert 方法：插入節點，或若已被軟刪除則復原
func (list *SplayList) Insert(index skiplist.Index) {
	node := list.find(index)

	if node != nil {
		if node.deleted {
			list.size++
		}
		node.deleted = false
		list.tryUpdate(index)
	} else {
		list.insertNewNode(index)
		list.update(index) //必定更新
		list.size++
	}
}

// Remove 方法：標記刪除節點
func (list *SplayList) Remove(index skiplist.Index) {
	node := list.find(index)
	if node != nil && !node.deleted {
		node.deleted = true
		list.tryUpdate(index)
		list.size--
	}
}

// insertNewNode 方法：插入新節點
func (list *SplayList) insertNewNode(index skiplist.Index) {
	zLevel := list.zeroLevel
	newNode := &SplayNode{
		index:     index,
		topLevel:  zLevel,
		zeroLevel: zLevel,
		selfhits:  1, // 新節點的 hit 為 1
		deleted:   false,
	}

	for i := 0; i <= MAX_LEVEL; i++ {
		newNode.next[i] = nil
	}

	list.insertNode(newNode, zLevel)
}

// insertNode 方法：在指定層級插入節點
func (list *SplayList) insertNode(newNode *SplayNode, level int32) {
	pred := list.head

	for h := int32(MAX_LEVEL); h >= list.zeroLevel; h-- {
		list.updateUpToLevel(pred, h)

		curr := pred.next[h]
		for curr != nil && list.compare(curr.index, newNode.index) < 0 {
			pred = curr
			curr = pred.next[h]
			if curr != nil {
				list.updateUpToLevel(curr, h)
			}
		}

		if h <= level {
			newNode.next[h] = curr
			pred.next[h] = newNode
		}
	}
}

// Size 回傳目前存活節點數
func (list *SplayList) Size() int {
	return int(list.size)
}

func (list *SplayList) GetHead() skiplist.Nodelike {
	list.UpdateAllLvl()
	return list.head
}

func (list *SplayList) GetMaxStats() (maxNodes int, maxLevel int) {
	list.UpdateAllLvl()
	return int(list.size), int(MAX_LEVEL - list.zeroLevel)
}

func (n *SplayNode) GetIndex() skiplist.Index {
	return n.index
}

func (n *SplayNode) GetLevel() int32 {
	return n.topLevel - n.zeroLevel
}

func (n *SplayNode) GetNextAt(level int32) skiplist.Nodelike {
	trueLevel := level + n.zeroLevel
	if trueLevel < 0 || trueLevel > n.topLevel {
		return nil
	}
	if n.next[trueLevel] == nil {
		return nil
	}
	return n.next[trueLevel]
}

func (sl *SplayList) UpdateAllLvl() {
	h := sl.zeroLevel
	node := sl.head
	for node != nil {
		sl.updateUpToLevel(node, h)
		node = node.next[h]
	}
}

func (sl *SplayList) tryUpdate(index skiplist.Index) {
	if rand.Float64() > sl.p {
		return
	}
	sl.update(index)
}

// // ---------------- hits 檢查工具 ----------------

// // isGoodhit 透過遞迴檢查每層 hits 的總和是否等於下層加總（含 selfhits）
// func (node *SplayNode) isGoodhit(level int32) bool {
// 	if level <= node.zeroLevel {
// 		return true
// 	}

// 	sum := int32(0)
// 	if node.isGoodhit(level - 1) {
// 		sum += node.hits[level-1] + node.selfhits
// 	} else {
// 		return false
// 	}

// 	curr := node.next[level-1]
// 	for curr != nil && curr.topLevel == level-1 {
// 		if curr.isGoodhit(level - 1) {
// 			sum += curr.hits[level-1] + curr.selfhits
// 		} else {
// 			return false
// 		}
// 		curr = curr.next[level-1]
// 	}
// 	return sum == node.hits[level]+node.selfhits
// }

// // CheckHits 用來驗證整棵 SplayList 的 hits 是否正確
// func (l *SplayList) CheckHits() bool {
// 	if l.head.isGoodhit(MAX_LEVEL) {
// 		return true
// 	}
// 	// 若 hits 不正確，輸出 skip list 結構與 hits 方便除錯
// 	analyTool.PrintSkipList(l, 32, 10000)
// 	fmt.Println("--------------------------------")
// 	l.PrintHits()
// 	panic("hits is not good")
// }

// // PrintHits 輸出各層 hits 及 selfhits，僅供偵錯使用
// func (l *SplayList) PrintHits() {
// 	curr := l.head
// 	n := int(curr.GetLevel())
// 	line := make([]string, n+1)
// 	lvl := int(curr.zeroLevel)
// 	selfhit := "Level S : "

// 	for i := 0; i <= n; i++ {
// 		line[i] = fmt.Sprintf("Level %d : ", i)
// 	}

// 	for curr != nil {
// 		// 確保 zeroLevel 位置更新
// 		l.updateUpToLevel(curr, int32(lvl))

// 		selfhit += fmt.Sprintf("%3d ->", curr.selfhits)
// 		for i := 0; i <= n; i++ {
// 			if curr.GetLevel() >= int32(i) {
// 				line[i] += fmt.Sprintf("%3d ->", curr.hits[i+lvl])
// 			} else {
// 				line[i] += "    ->"
// 			}
// 		}

// 		curr = curr.next[lvl]
// 	}

// 	for i := n; i >= 0; i-- {
// 		fmt.Println(line[i])
// 	}
// 	fmt.Println(selfhit)
// }
