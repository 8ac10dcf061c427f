package runs

import (
	"container/heap"
	"fmt"
	"log"
	"os"

	"github.com/AmrMurad1/Go-ExtSort/shared"
)

// cursor is the next unread value of one open run. source indexes the live
// reader table of the merge step that owns the run; remaining counts the
// records still unread after value.
type cursor struct {
	value     shared.Record
	source    int
	remaining int64
}

type cursorHeap []cursor

func (h cursorHeap) Len() int {
	return len(h)
}

func (h cursorHeap) Less(i, j int) bool {
	return h[i].value < h[j].value
}

func (h cursorHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *cursorHeap) Push(x any) {
	*h = append(*h, x.(cursor))
}

func (h *cursorHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// Merger folds the manager's pending runs, at most k at a time, until a
// single run is left.
type Merger struct {
	manager *Manager
	k       int
}

func NewMerger(m *Manager, k int) *Merger {
	return &Merger{manager: m, k: k}
}

// MergeRuns merges every pending run of m into one file at outputPath.
func MergeRuns(m *Manager, k int, outputPath string) error {
	return NewMerger(m, k).Merge(outputPath)
}

func (mg *Merger) Merge(outputPath string) error {
	if mg.k < 2 {
		return fmt.Errorf("%w: memory bound must be greater than 1, got %d", shared.ErrInvalidConfiguration, mg.k)
	}

	m := mg.manager
	switch m.PendingLen() {
	case 0:
		return createEmpty(outputPath)
	case 1:
		return m.Promote(m.Pending()[0], outputPath)
	}

	for m.PendingLen() > 1 {
		if _, err := mg.Step(); err != nil {
			return err
		}
	}

	return m.Promote(m.Pending()[0], outputPath)
}

// Step folds the oldest min(k, pending) runs into a new run, deletes the
// sources and queues the result. It reports whether the new run is the last
// one left.
func (mg *Merger) Step() (bool, error) {
	m := mg.manager

	ids := m.Take(min(mg.k, m.PendingLen()))
	final := m.PendingLen() == 0

	id, err := mg.merge(ids, m.config.Compress && !final)
	if err != nil {
		return false, err
	}
	m.stats.MergeSteps++

	log.Printf("merged runs %v into run %s, final=%t", ids, id, final)
	return final, nil
}

func (mg *Merger) merge(ids []shared.RunID, compressed bool) (id shared.RunID, err error) {
	m := mg.manager

	live := make([]*Reader, 0, len(ids))
	defer func() {
		for _, r := range live {
			if cerr := r.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close run %s: %w", r.ID(), cerr)
			}
		}
	}()

	h := make(cursorHeap, 0, len(ids))
	for _, runID := range ids {
		r, err := m.Open(runID)
		if err != nil {
			return 0, err
		}
		live = append(live, r)

		if r.Remaining() == 0 {
			continue
		}
		value, err := r.Next()
		if err != nil {
			return 0, err
		}
		h = append(h, cursor{value: value, source: len(live) - 1, remaining: r.Remaining()})
	}
	heap.Init(&h)

	w, err := m.Create(compressed)
	if err != nil {
		return 0, err
	}
	id = w.ID()

	for h.Len() > 0 {
		c := heap.Pop(&h).(cursor)
		if err := w.Add(c.value); err != nil {
			w.Abort()
			return id, err
		}

		if c.remaining == 0 {
			continue
		}

		value, err := live[c.source].Next()
		if err != nil {
			w.Abort()
			return id, err
		}
		heap.Push(&h, cursor{value: value, source: c.source, remaining: c.remaining - 1})
	}

	if _, err := w.Finish(); err != nil {
		return id, err
	}

	for _, r := range live {
		if err := r.Close(); err != nil {
			return id, fmt.Errorf("failed to close run %s: %w", r.ID(), err)
		}
	}
	live = nil

	for _, runID := range ids {
		if err := m.Delete(runID); err != nil {
			return id, err
		}
	}
	return id, nil
}

func createEmpty(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s: %w", shared.ErrOutputUnwritable, outputPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: failed to close %s: %w", shared.ErrOutputUnwritable, outputPath, err)
	}
	log.Printf("no runs to merge, wrote empty %s", outputPath)
	return nil
}
