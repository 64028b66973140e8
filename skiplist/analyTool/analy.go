// Package analyTool walks any draft implementing skiplist.Analyable to
// report search-cost statistics, print its structure for visual inspection,
// and validate its internal level invariants.
package analyTool

import (
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/hakuto838/indexskip/skiplist"
)

// StepMap records, for each index that was searched for, how many
// comparisons it took to find it.
type StepMap map[skiplist.Index]int

// FindStep 計算找到指定 index 的總步數和各層步數
func FindStep(sl skiplist.Analyable, index skiplist.Index, compare skiplist.Comparator) (step int, level []int) {
	cur := sl.GetHead()
	if cur == nil {
		return 0, []int{}
	}

	totalSteps := 0

	_, maxLevel := sl.GetMaxStats()
	stepsPerLevel := make([]int, maxLevel+1)

	for h := maxLevel; h >= 0; h-- {
		levelSteps := 0

		for cur != nil {
			nextNode := cur.GetNextAt(int32(h))
			if nextNode == nil || compare(nextNode.GetIndex(), index) >= 0 {
				break
			}
			cur = nextNode
			levelSteps++
		}

		if cur != nil {
			nextNode := cur.GetNextAt(int32(h))
			if nextNode != nil && compare(nextNode.GetIndex(), index) == 0 {
				levelSteps++
				stepsPerLevel[h] = levelSteps
				totalSteps += levelSteps

				return totalSteps, stepsPerLevel[:maxLevel+1]
			}
		}

		stepsPerLevel[h] = levelSteps
		totalSteps += levelSteps + 1
	}

	return totalSteps, stepsPerLevel[:maxLevel+1]
}

// AnalyzeStep 根據 map 提供的 index 出現機率計算平均搜尋步數。weights keys
// the access probability of every index expected to be present in sl.
func AnalyzeStep(sl skiplist.Analyable, weights map[skiplist.Index]float64) (float64, StepMap) {
	if len(weights) == 0 {
		return 0.0, nil
	}

	step := StepMap{}

	var totalExpectedSteps float64
	var totalProbability float64

	var dfs func(node skiplist.Nodelike, level int, steps int)
	dfs = func(node skiplist.Nodelike, level int, steps int) {
		if node == nil {
			return
		}

		if node.GetLevel() == int32(level) {
			if w, ok := weights[node.GetIndex()]; ok {
				totalExpectedSteps += float64(steps) * w
				totalProbability += w
				step[node.GetIndex()] = steps
			} else {
				fmt.Printf("warning: index not found in weights map: %d\n", node.GetIndex())
			}
		}
		if level > 0 {
			dfs(node, level-1, steps+1)
		}

		nextNode := node.GetNextAt(int32(level))
		if nextNode != nil && nextNode.GetLevel() == int32(level) {
			dfs(nextNode, level, steps+1)
		}
	}

	_, maxLevel := sl.GetMaxStats()
	head := sl.GetHead()
	if head != nil {
		dfs(head, maxLevel, 0)
	}

	if totalProbability > 0 {
		return totalExpectedSteps / totalProbability, step
	}
	return 0.0, step
}

// PrintSkipList 打印 skip list 的結構
func PrintSkipList(sl skiplist.Analyable, maxLevel, maxNodes int) {
	_, actualMaxLevel := sl.GetMaxStats()
	maxLevel = min(maxLevel, actualMaxLevel)
	output := make([]string, maxLevel+1)

	for i := maxLevel; i >= 0; i-- {
		output[i] = fmt.Sprintf("level %d : ", i)
	}

	node := sl.GetHead()
	if node == nil {
		fmt.Println("Skip list 為空")
		return
	}

	count := 0
	for ; node != nil && count < maxNodes; count++ {
		lv := int(node.GetLevel())
		for i := range output {
			if i <= lv {
				output[i] += fmt.Sprintf("%3d ->", node.GetIndex())
			} else {
				output[i] += "    ->"
			}
		}
		nextNode := node.GetNextAt(0)
		if nextNode != nil {
			node = nextNode
		} else {
			break
		}
	}

	for i := maxLevel; i >= 0; i-- {
		fmt.Println(output[i])
	}
}

// PrintSkipListToCSV 將 skip list 的結構輸出到 CSV
func PrintSkipListToCSV(sl skiplist.Analyable, maxLevel, maxNodes int, writer *csv.Writer) {
	_, actualMaxLevel := sl.GetMaxStats()
	maxLevel = min(maxLevel, actualMaxLevel)

	var allIndices []skiplist.Index
	node := sl.GetHead()
	for node != nil {
		allIndices = append(allIndices, node.GetIndex())
		node = node.GetNextAt(0)
	}

	if len(allIndices) > maxNodes {
		allIndices = allIndices[:maxNodes]
	}

	for i := maxLevel; i >= 0; i-- {
		row := []string{fmt.Sprintf("level %d", i)}
		currentIndex := 0
		node := sl.GetHead()
		for node != nil && currentIndex < len(allIndices) {
			if node.GetIndex() == allIndices[currentIndex] {
				if int(node.GetLevel()) >= i {
					row = append(row, fmt.Sprintf("%d", node.GetIndex()))
				} else {
					row = append(row, "")
				}
				node = node.GetNextAt(0)
				currentIndex++
			} else if node.GetIndex() < allIndices[currentIndex] {
				node = node.GetNextAt(0)
			} else {
				row = append(row, "")
				currentIndex++
			}
		}
		writer.Write(row)
	}
}

// PrintLink 打印 skip list 的連結結構
func PrintLink(sl skiplist.Analyable, maxLevel, maxNodes int) {
	head := sl.GetHead()
	if head == nil {
		fmt.Println("Skip list 為空")
		return
	}

	maxLevel = min(maxLevel, int(head.GetLevel()))

	for i := maxLevel; i >= 0; i-- {
		if int(head.GetLevel()) < i {
			continue
		}
		fmt.Printf("level %d : ", i)
		node := head
		count := 0
		for node != nil && count < maxNodes {
			fmt.Printf("%d ->", node.GetIndex())
			nextNode := node.GetNextAt(int32(i))
			if nextNode != nil {
				node = nextNode
			} else {
				break
			}
			count++
		}
		fmt.Println()
	}
}

// CheckStruct 檢查 skip list 的結構是否正確
func CheckStruct(sl skiplist.Analyable) bool {
	_, maxLevel := sl.GetMaxStats()
	list := make([]skiplist.Nodelike, maxLevel+1)

	node := sl.GetHead()
	if node == nil {
		return true
	}

	for i := range list {
		list[i] = node
	}

	nextNode := node.GetNextAt(0)
	if nextNode != nil {
		node = nextNode
	} else {
		return true
	}

	for node != nil {
		nodelv := node.GetLevel()
		if nodelv > int32(maxLevel) {
			fmt.Printf("nodelv > level, nodelv: %d, level: %d\n", nodelv, maxLevel)
			return false
		}
		for i := 1; i <= int(nodelv); i++ {
			if i < len(list) {
				nextAtLevel := list[i].GetNextAt(int32(i))
				if nextAtLevel != node {
					fmt.Printf("list[%d] != node, list[%d]: %d, node: %d\n", i, i, nextAtLevel.GetIndex(), node.GetIndex())
					return false
				}
				list[i] = node
			}
		}
		nextNode := node.GetNextAt(0)
		if nextNode != nil {
			node = nextNode
		} else {
			break
		}
	}

	return true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (mp StepMap) Print() {
	out := make([][2]int, 0)
	for k, v := range mp {
		out = append(out, [2]int{int(k), v})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i][0] < out[j][0]
	})

	for _, v := range out {
		fmt.Printf("%2d  ", v[0])
	}
	fmt.Println()
	for _, v := range out {
		fmt.Printf("%2d  ", v[1])
	}
}

func (mp StepMap) PrintToCSV(writer *csv.Writer) {
	out := make([][2]int, 0)
	for k, v := range mp {
		out = append(out, [2]int{int(k), v})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i][0] < out[j][0]
	})
	steps := make([]string, len(out)+2)

	for i, v := range out {
		steps[i+2] = fmt.Sprintf("%d", v[1])
	}

	writer.Write(steps)
}

func CountLevel(sl skiplist.Analyable) []int {
	maxNodes, maxLevel := sl.GetMaxStats()
	levelCounts := make([]int, maxLevel)

	head := sl.GetHead()
	current := head.GetNextAt(0)

	for current != nil {
		nodeLevel := current.GetLevel()
		for i := int32(0); i <= nodeLevel; i++ {
			if int(i) < len(levelCounts) {
				levelCounts[i]++
			}
		}
		current = current.GetNextAt(0)
	}

	fmt.Printf("層級節點統計 (總節點數: %d, 最高層級: %d):\n", maxNodes, maxLevel)
	for i := maxLevel - 1; i >= 0; i-- {
		fmt.Printf("Level %2d: %d 個節點\n", i, levelCounts[i])
	}

	return levelCounts
}

func BetterPrintSkipListToCSV(sl skiplist.Analyable, writer *csv.Writer) {
	_, actualMaxLevel := sl.GetMaxStats()

	outstr := make([][]string, actualMaxLevel+1)
	var dfs func(node skiplist.Nodelike, level int)
	dfs = func(node skiplist.Nodelike, level int) {
		if node == nil {
			return
		}
		if node.GetLevel() == int32(level) {
			for i := range outstr {
				if i <= level {
					outstr[i] = append(outstr[i], fmt.Sprintf("%d", node.GetIndex()))
				} else {
					outstr[i] = append(outstr[i], "")
				}
			}
		}
		if level > 0 {
			dfs(node, level-1)
		}
		nextNode := node.GetNextAt(int32(level))
		if nextNode != nil && nextNode.GetLevel() == int32(level) {
			dfs(nextNode, level)
		}
	}
	head := sl.GetHead()
	if head != nil {
		dfs(head, actualMaxLevel)
	}

	for i := len(outstr) - 1; i >= 0; i-- {
		row := make([]string, len(outstr[i])+1)
		row[0] = fmt.Sprintf("level %d", i)
		copy(row[1:], outstr[i])
		writer.Write(row)
	}
}
