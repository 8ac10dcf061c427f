package fingerprint

import (
	"fmt"
	"io"

	"github.com/AmrMurad1/Go-ExtSort/shared"
	"github.com/spaolacci/murmur3"
)

var seeds = [2]uint32{0, 0x9747b28c}

// Digest summarises a multiset of records. Two digests are equal when they
// saw the same records the same number of times, in any order.
type Digest struct {
	Count int64
	sums  [len(seeds)]uint64
	buf   [shared.RecordSize]byte
}

func New() *Digest {
	return &Digest{}
}

// Add adds a record to the digest
func (d *Digest) Add(r shared.Record) {
	shared.PutRecord(d.buf[:], r)
	for i, seed := range seeds {
		d.sums[i] += murmur3.Sum64WithSeed(d.buf[:], seed)
	}
	d.Count++
}

func (d *Digest) AddAll(records []shared.Record) {
	for _, r := range records {
		d.Add(r)
	}
}

func (d *Digest) Equal(other *Digest) bool {
	return d.Count == other.Count && d.sums == other.sums
}

func (d *Digest) String() string {
	return fmt.Sprintf("%d records, %016x%016x", d.Count, d.sums[0], d.sums[1])
}

// Check reads a sorted record stream, verifying it is in non-decreasing
// order, and returns its digest.
func Check(r io.Reader) (*Digest, error) {
	d := New()
	var buf [shared.RecordSize]byte
	var prev shared.Record

	for {
		_, err := io.ReadFull(r, buf[:])
		if err == io.EOF {
			return d, nil
		}
		if err == io.ErrUnexpectedEOF {
			return d, fmt.Errorf("%w: trailing partial record after %d records", shared.ErrMalformedInput, d.Count)
		}
		if err != nil {
			return d, fmt.Errorf("%w: %w", shared.ErrInputUnreadable, err)
		}

		rec := shared.DecodeRecord(buf[:])
		if d.Count > 0 && rec < prev {
			return d, fmt.Errorf("%w: record %d (%d) is smaller than its predecessor (%d)", shared.ErrVerification, d.Count, rec, prev)
		}
		d.Add(rec)
		prev = rec
	}
}
