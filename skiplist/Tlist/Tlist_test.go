package tlist

import (
	"testing"

	"github.com/hakuto838/indexskip/skiplist"
)

func TestTListBasic(t *testing.T) {
	// 創建一個 TList，span 設為 2
	tl := NewSkipList(2, skiplist.Natural)

	// 測試插入 5 個元素
	for i := 1; i <= 5; i++ {
		tl.Insert(skiplist.Index(i))
	}

	// 測試 Contains 操作
	for i := 1; i <= 5; i++ {
		if !tl.Contains(skiplist.Index(i)) {
			t.Errorf("期望 index %d 存在，但 Contains 返回 false", i)
		}
	}

	// 測試不存在的 index
	if tl.Contains(skiplist.Index(6)) {
		t.Error("期望 index 6 不存在，但 Contains 返回 true")
	}

	// 測試 Remove 操作
	tl.Remove(skiplist.Index(3))
	if tl.Contains(skiplist.Index(3)) {
		t.Error("刪除 index 3 後，期望不存在，但 Contains 返回 true")
	}

	// 測試統計信息
	size, level := tl.GetMaxStats()
	t.Logf("TList 統計: size=%d, level=%d", size, level)
}
