package runs

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/AmrMurad1/Go-ExtSort/shared"
	"github.com/klauspost/compress/s2"
)

// Writer appends records to a new run. The run becomes visible to the merge
// queue only once Finish succeeds.
type Writer struct {
	manager *Manager
	run     Run
	file    *os.File
	writer  *bufio.Writer
	stream  *s2.Writer
	out     io.Writer
	buf     [shared.RecordSize]byte
	done    bool
}

func newWriter(m *Manager, run Run) (*Writer, error) {
	file, err := os.Create(run.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: create run %s: %w", shared.ErrOutputUnwritable, run.ID, err)
	}

	w := &Writer{
		manager: m,
		run:     run,
		file:    file,
		writer:  bufio.NewWriterSize(file, m.config.WriteBufferSize),
	}
	w.out = w.writer

	if run.Compressed {
		w.stream = s2.NewWriter(w.writer, s2.WriterConcurrency(1))
		w.out = w.stream
	}
	return w, nil
}

func (w *Writer) ID() shared.RunID {
	return w.run.ID
}

func (w *Writer) Add(r shared.Record) error {
	shared.PutRecord(w.buf[:], r)
	if _, err := w.out.Write(w.buf[:]); err != nil {
		return fmt.Errorf("%w: write run %s: %w", shared.ErrOutputUnwritable, w.run.ID, err)
	}
	w.run.Records++
	return nil
}

func (w *Writer) AddAll(records []shared.Record) error {
	for _, r := range records {
		if err := w.Add(r); err != nil {
			return err
		}
	}
	return nil
}

// Finish flushes and closes the run file and appends the run to the
// manager's pending queue.
func (w *Writer) Finish() (Run, error) {
	if w.done {
		return w.run, fmt.Errorf("run %s already finished", w.run.ID)
	}
	w.done = true

	if w.stream != nil {
		if err := w.stream.Close(); err != nil {
			w.file.Close()
			return w.run, fmt.Errorf("%w: finish run %s: %w", shared.ErrOutputUnwritable, w.run.ID, err)
		}
	}

	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return w.run, fmt.Errorf("%w: flush run %s: %w", shared.ErrOutputUnwritable, w.run.ID, err)
	}

	if err := w.file.Close(); err != nil {
		return w.run, fmt.Errorf("%w: close run %s: %w", shared.ErrOutputUnwritable, w.run.ID, err)
	}

	w.manager.finish(w.run)
	return w.run, nil
}

// Abort closes the file without queueing the run. The partial file stays
// registered with the manager until Cleanup.
func (w *Writer) Abort() {
	if w.done {
		return
	}
	w.done = true
	w.file.Close()
}
