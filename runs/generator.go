package runs

import (
	"fmt"
	"io"
	"log"

	"github.com/AmrMurad1/Go-ExtSort/chunk"
	"github.com/AmrMurad1/Go-ExtSort/shared"
)

// Generator splits unsorted input into sorted runs of at most k records.
type Generator struct {
	manager *Manager
	k       int

	// Visit, when set, sees every sorted chunk before it is written.
	Visit func(records []shared.Record)
}

func NewGenerator(m *Manager, k int) *Generator {
	return &Generator{manager: m, k: k}
}

// GenerateRuns reads size bytes of records from in and leaves ceil(N/k) runs
// in the manager's pending queue. It returns the number of runs produced.
func GenerateRuns(in io.Reader, size int64, k int, m *Manager) (int, error) {
	return NewGenerator(m, k).Generate(in, size)
}

func (g *Generator) Generate(in io.Reader, size int64) (int, error) {
	if g.k < 2 {
		return 0, fmt.Errorf("%w: memory bound must be greater than 1, got %d", shared.ErrInvalidConfiguration, g.k)
	}

	total, err := shared.RecordCount(size)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		log.Println("input is empty, no runs generated")
		return 0, nil
	}

	k := int64(g.k)
	runCount := int((total + k - 1) / k)

	// A lone run is the final output and must stay raw.
	compressed := g.manager.config.Compress && runCount > 1

	buf, err := chunk.New(int(min(k, total)))
	if err != nil {
		return 0, err
	}

	remaining := total
	produced := 0
	for remaining > 0 {
		n := int(min(k, remaining))

		if err := buf.Fill(in, n); err != nil {
			return produced, err
		}
		g.manager.observeBuffered(buf.Len())
		buf.Sort()

		if g.Visit != nil {
			g.Visit(buf.Records())
		}

		if err := g.writeRun(buf.Records(), compressed); err != nil {
			return produced, err
		}
		buf.Reset()

		remaining -= int64(n)
		produced++
	}

	g.manager.stats.Runs += produced
	log.Printf("generated %d runs from %d records (k=%d)", produced, total, g.k)
	g.manager.listRuns()
	return produced, nil
}

func (g *Generator) writeRun(records []shared.Record, compressed bool) error {
	w, err := g.manager.Create(compressed)
	if err != nil {
		return err
	}

	if err := w.AddAll(records); err != nil {
		w.Abort()
		return err
	}

	_, err = w.Finish()
	return err
}
