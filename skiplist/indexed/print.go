package indexed

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// PrintStructure renders one row per level (size, head, tail) to w. The
// canonical core has no per-node objects for analyTool to walk, so this is
// its own diagnostics surface rather than a Nodelike-based printer.
func (s *SkipList) PrintStructure(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Level", "Size", "Head", "Tail"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)

	rows := make([][]string, 0, s.levels)
	for l := s.levels - 1; l >= 0; l-- {
		head := "-"
		tail := "-"
		if s.heads[l] != noLink {
			head = strconv.FormatInt(s.heads[l], 10)
		}
		if s.tails[l] != noLink {
			tail = strconv.FormatInt(s.tails[l], 10)
		}
		rows = append(rows, []string{
			strconv.Itoa(l),
			strconv.Itoa(s.sizes[l]),
			head,
			tail,
		})
	}
	table.AppendBulk(rows)
	table.Render()
}

// LevelHistogram reports the size of each level, from 0 (the complete
// chain) up to currentLevel.
func (s *SkipList) LevelHistogram() []int {
	hist := make([]int, s.currentLevel+1)
	copy(hist, s.sizes[:s.currentLevel+1])
	return hist
}
