package chunk

import (
	"fmt"
	"io"
	"slices"

	"github.com/AmrMurad1/Go-ExtSort/shared"
)

// Chunk is a bounded in-memory record buffer. It never holds more than its
// capacity, and its backing array is reused between fills.
type Chunk struct {
	capacity int
	records  []shared.Record
	scratch  [shared.RecordSize]byte
}

func New(capacity int) (*Chunk, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: chunk capacity %d", shared.ErrInvalidConfiguration, capacity)
	}

	return &Chunk{
		capacity: capacity,
		records:  make([]shared.Record, 0, capacity),
	}, nil
}

func (c *Chunk) Cap() int {
	return c.capacity
}

func (c *Chunk) Len() int {
	return len(c.records)
}

// Fill replaces the contents with the next n records decoded from r.
func (c *Chunk) Fill(r io.Reader, n int) error {
	if n > c.capacity {
		return fmt.Errorf("chunk: fill of %d records exceeds capacity %d", n, c.capacity)
	}

	c.records = c.records[:0]
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, c.scratch[:]); err != nil {
			return fmt.Errorf("%w: read record %d of %d: %w", shared.ErrInputUnreadable, i, n, err)
		}
		c.records = append(c.records, shared.DecodeRecord(c.scratch[:]))
	}
	return nil
}

func (c *Chunk) Sort() {
	slices.SortFunc(c.records, shared.CompareRecords)
}

// Records returns the buffered records. The slice is only valid until the
// next Fill or Reset.
func (c *Chunk) Records() []shared.Record {
	return c.records
}

func (c *Chunk) Reset() {
	c.records = c.records[:0]
}
