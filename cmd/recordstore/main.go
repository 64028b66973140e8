// recordstore is an end-to-end demo wiring the companion circular buffer
// (buffer.Ring) to the CORE skip list (skiplist/indexed): the buffer owns
// the values, the skip list only ever sees the slot ids it hands back.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hakuto838/indexskip/buffer"
	"github.com/hakuto838/indexskip/skiplist"
	"github.com/hakuto838/indexskip/skiplist/indexed"
	"github.com/olekukonko/tablewriter"
)

// Record is the value the ring buffer stores. Each carries a uuid so
// diagnostic output can tell apart two records that happen to land in the
// same reused slot id after an eviction.
type Record struct {
	ID       uuid.UUID
	Priority int
}

func main() {
	var capacity int
	var count int
	var seed int64

	flag.IntVar(&capacity, "capacity", 8, "ring buffer / skip list capacity")
	flag.IntVar(&count, "count", 20, "number of records to append (> capacity exercises eviction)")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "seed for record priorities")
	flag.Parse()

	ring := buffer.New[Record](uint32(capacity))

	// The comparator dereferences into the ring to order slot ids by the
	// Priority of the record each one currently holds, rather than comparing
	// slot ids directly.
	compare := func(a, b skiplist.Index) int {
		va, _ := ring.At(a)
		vb, _ := ring.At(b)
		switch {
		case va.Priority < vb.Priority:
			return -1
		case va.Priority > vb.Priority:
			return 1
		default:
			return 0
		}
	}

	sl, err := indexed.New(uint32(capacity), 0.5, compare, indexed.WithDebugChecks())
	if err != nil {
		fmt.Fprintf(os.Stderr, "construct skip list: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(seed))
	live := make(map[skiplist.Index]bool)

	for i := 0; i < count; i++ {
		rec := Record{ID: uuid.New(), Priority: rng.Intn(1000)}
		slot := ring.Append(rec)

		// A reused slot id must be retired from the skip list before the
		// buffer's new record at that id is inserted — the skip list has
		// no way to detect the reuse itself.
		if live[slot] {
			if err := sl.Remove(slot); err != nil {
				fmt.Fprintf(os.Stderr, "remove stale slot %d: %v\n", slot, err)
				os.Exit(1)
			}
			delete(live, slot)
		}

		if err := sl.Insert(slot); err != nil {
			fmt.Fprintf(os.Stderr, "insert slot %d: %v\n", slot, err)
			os.Exit(1)
		}
		live[slot] = true
	}

	fmt.Printf("appended %d records into a capacity-%d ring; %d currently live\n\n", count, capacity, sl.Size())

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Slot", "Priority", "Record ID"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	rows := make([][]string, 0, sl.Size())
	for slot := range sl.All() {
		rec, ok := ring.At(slot)
		if !ok {
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", slot),
			fmt.Sprintf("%d", rec.Priority),
			rec.ID.String(),
		})
	}
	table.AppendBulk(rows)
	table.Render()
}
