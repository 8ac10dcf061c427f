package runs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/AmrMurad1/Go-ExtSort/shared"
)

// Stats reports what one sort did to the run directory.
type Stats struct {
	Runs         int
	MergeSteps   int
	PeakBuffered int
	PeakOpenRuns int
}

// Manager owns the run namespace of a sort: it allocates run ids, keeps the
// queue of finished runs waiting to be merged and tracks open run readers.
// It is not safe for concurrent use.
type Manager struct {
	config  *Config
	nextID  shared.RunID
	pending []shared.RunID
	runs    map[shared.RunID]*Run
	open    int
	stats   Stats
}

func createPath(dataPath string) error {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return fmt.Errorf("%w: failed to create run directory: %w", shared.ErrOutputUnwritable, err)
	}
	return nil
}

func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if config.Dir == "" {
		config.Dir = DefaultDir
	}
	if config.ReadBufferSize <= 0 {
		config.ReadBufferSize = DefaultReadBufferSize
	}
	if config.WriteBufferSize <= 0 {
		config.WriteBufferSize = DefaultWriteBufferSize
	}

	if err := createPath(config.Dir); err != nil {
		return nil, err
	}

	return &Manager{
		config: config,
		runs:   make(map[shared.RunID]*Run),
	}, nil
}

func (m *Manager) Config() *Config {
	return m.config
}

func (m *Manager) path(id shared.RunID) string {
	return filepath.Join(m.config.Dir, id.String())
}

// Create allocates the next run id and opens a writer for it.
func (m *Manager) Create(compressed bool) (*Writer, error) {
	id := m.nextID
	m.nextID++

	run := &Run{
		ID:         id,
		Path:       m.path(id),
		Compressed: compressed,
	}

	w, err := newWriter(m, *run)
	if err != nil {
		return nil, err
	}
	m.runs[id] = run
	return w, nil
}

func (m *Manager) finish(run Run) {
	*m.runs[run.ID] = run
	m.pending = append(m.pending, run.ID)
}

// Pending returns the ids of finished runs that have not been merged yet,
// oldest first.
func (m *Manager) Pending() []shared.RunID {
	return append([]shared.RunID(nil), m.pending...)
}

func (m *Manager) PendingLen() int {
	return len(m.pending)
}

// Take removes and returns the n oldest pending runs.
func (m *Manager) Take(n int) []shared.RunID {
	if n > len(m.pending) {
		n = len(m.pending)
	}
	ids := append([]shared.RunID(nil), m.pending[:n]...)
	m.pending = m.pending[n:]
	return ids
}

func (m *Manager) Run(id shared.RunID) (Run, bool) {
	run, ok := m.runs[id]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

func (m *Manager) Open(id shared.RunID) (*Reader, error) {
	run, ok := m.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown run %s", shared.ErrInputUnreadable, id)
	}

	r, err := openReader(m, *run)
	if err != nil {
		return nil, err
	}

	m.open++
	if m.open > m.stats.PeakOpenRuns {
		m.stats.PeakOpenRuns = m.open
	}
	return r, nil
}

func (m *Manager) release() {
	m.open--
}

// OpenRuns is the number of run readers currently open.
func (m *Manager) OpenRuns() int {
	return m.open
}

func (m *Manager) Delete(id shared.RunID) error {
	run, ok := m.runs[id]
	if !ok {
		return nil
	}

	if err := os.Remove(run.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	delete(m.runs, id)
	return nil
}

// Promote renames a run to outputPath. The run leaves the manager's care.
func (m *Manager) Promote(id shared.RunID, outputPath string) error {
	run, ok := m.runs[id]
	if !ok {
		return fmt.Errorf("%w: unknown run %s", shared.ErrInputUnreadable, id)
	}
	if run.Compressed {
		return fmt.Errorf("run %s is compressed and cannot become the output", id)
	}

	if err := os.Rename(run.Path, outputPath); err != nil {
		return fmt.Errorf("%w: failed to rename run %s to %s: %w", shared.ErrOutputUnwritable, id, outputPath, err)
	}

	delete(m.runs, id)
	m.pending = removeID(m.pending, id)
	log.Printf("run %s renamed to %s (%d records)", id, outputPath, run.Records)
	return nil
}

// Cleanup deletes every run file the manager still knows about, finished or
// not. The sort itself never rolls back, so callers use this after a failure.
func (m *Manager) Cleanup() error {
	var firstError error

	for id := range m.runs {
		if err := m.Delete(id); err != nil && firstError == nil {
			firstError = err
		}
	}
	m.pending = nil

	return firstError
}

func (m *Manager) Stats() Stats {
	return m.stats
}

func (m *Manager) observeBuffered(n int) {
	if n > m.stats.PeakBuffered {
		m.stats.PeakBuffered = n
	}
}

func (m *Manager) listRuns() {
	var records int64
	compressed := 0
	for _, run := range m.runs {
		records += run.Records
		if run.Compressed {
			compressed++
		}
	}

	log.Printf("run layout: %d on disk (%d compressed), %d pending, %d records, next id %s",
		len(m.runs), compressed, len(m.pending), records, m.nextID)
}

func removeID(ids []shared.RunID, id shared.RunID) []shared.RunID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
