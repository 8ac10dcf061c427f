package runs

import (
	"io"
	"os"
	"testing"

	"github.com/AmrMurad1/Go-ExtSort/shared"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, compress bool) *Manager {
	t.Helper()
	config := NewDefaultConfig()
	config.Dir = t.TempDir()
	config.Compress = compress
	m, err := NewManager(config)
	require.NoError(t, err)
	return m
}

func encode(records []shared.Record) []byte {
	buf := make([]byte, len(records)*shared.RecordSize)
	for i, r := range records {
		shared.PutRecord(buf[i*shared.RecordSize:], r)
	}
	return buf
}

func decode(t *testing.T, data []byte) []shared.Record {
	t.Helper()
	require.Zero(t, len(data)%shared.RecordSize)
	records := make([]shared.Record, 0, len(data)/shared.RecordSize)
	for i := 0; i < len(data); i += shared.RecordSize {
		records = append(records, shared.DecodeRecord(data[i:]))
	}
	return records
}

func readFile(t *testing.T, path string) []shared.Record {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return decode(t, data)
}

func readRun(t *testing.T, m *Manager, id shared.RunID) []shared.Record {
	t.Helper()
	r, err := m.Open(id)
	require.NoError(t, err)
	defer r.Close()

	var records []shared.Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return records
		}
		require.NoError(t, err)
		records = append(records, rec)
	}
}

func addRun(t *testing.T, m *Manager, records ...shared.Record) shared.RunID {
	t.Helper()
	w, err := m.Create(m.config.Compress)
	require.NoError(t, err)
	require.NoError(t, w.AddAll(records))
	run, err := w.Finish()
	require.NoError(t, err)
	return run.ID
}

// dirEntries lists the file names left in dir.
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
