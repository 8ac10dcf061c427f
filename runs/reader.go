package runs

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/AmrMurad1/Go-ExtSort/shared"
	"github.com/klauspost/compress/s2"
)

// Reader yields the records of one run in order.
type Reader struct {
	manager   *Manager
	run       Run
	file      *os.File
	in        io.Reader
	remaining int64
	buf       [shared.RecordSize]byte
	closed    bool
}

func openReader(m *Manager, run Run) (*Reader, error) {
	file, err := os.Open(run.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: open run %s: %w", shared.ErrInputUnreadable, run.ID, err)
	}

	r := &Reader{
		manager:   m,
		run:       run,
		file:      file,
		remaining: run.Records,
	}

	if run.Compressed {
		r.in = s2.NewReader(file)
	} else {
		r.in = bufio.NewReaderSize(file, m.config.ReadBufferSize)
	}
	return r, nil
}

func (r *Reader) ID() shared.RunID {
	return r.run.ID
}

// Remaining is the number of records not yet returned by Next.
func (r *Reader) Remaining() int64 {
	return r.remaining
}

// Next returns the next record, or io.EOF once all records were read.
func (r *Reader) Next() (shared.Record, error) {
	if r.remaining == 0 {
		return 0, io.EOF
	}

	if _, err := io.ReadFull(r.in, r.buf[:]); err != nil {
		return 0, fmt.Errorf("%w: read run %s with %d records left: %w", shared.ErrInputUnreadable, r.run.ID, r.remaining, err)
	}
	r.remaining--
	return shared.DecodeRecord(r.buf[:]), nil
}

func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.manager.release()
	return r.file.Close()
}
