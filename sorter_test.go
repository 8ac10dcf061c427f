package main

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/AmrMurad1/Go-ExtSort/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(records []shared.Record) []byte {
	buf := make([]byte, len(records)*shared.RecordSize)
	for i, r := range records {
		shared.PutRecord(buf[i*shared.RecordSize:], r)
	}
	return buf
}

func writeInput(t *testing.T, records []shared.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.bin")
	require.NoError(t, os.WriteFile(path, encode(records), 0644))
	return path
}

func readOutput(t *testing.T, path string) []shared.Record {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Zero(t, len(data)%shared.RecordSize)
	var records []shared.Record
	for i := 0; i < len(data); i += shared.RecordSize {
		records = append(records, shared.DecodeRecord(data[i:]))
	}
	return records
}

func newTestConfig(t *testing.T, input string, k int) *Config {
	t.Helper()
	dir := t.TempDir()
	return NewDefaultConfig().
		WithInput(input).
		WithOutput(filepath.Join(dir, "sorted.bin")).
		WithMaxInMemory(k).
		WithTempDir(filepath.Join(dir, "runs"))
}

func assertNoRuns(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return
	}
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSorter_Scenario(t *testing.T) {
	input := writeInput(t, []shared.Record{5, 3, 8, 1, 9, 2, 7, 4, 6})
	config := newTestConfig(t, input, 3).WithVerify(true)

	sorter, err := NewSorter(config)
	require.NoError(t, err)
	stats, err := sorter.Sort()
	require.NoError(t, err)

	assert.Equal(t, []shared.Record{1, 2, 3, 4, 5, 6, 7, 8, 9}, readOutput(t, config.OutputPath))
	assert.Equal(t, int64(9), stats.Records)
	assert.Equal(t, 3, stats.Runs)
	assert.Equal(t, 1, stats.MergeSteps)
	assertNoRuns(t, config.TempDir)

	// the input is left alone
	assert.Equal(t, []shared.Record{5, 3, 8, 1, 9, 2, 7, 4, 6}, readOutput(t, input))
}

func TestSorter_MultiPass(t *testing.T) {
	input := writeInput(t, []shared.Record{10, 9, 8, 7, 6, 5, 4, 3, 2, 1})
	config := newTestConfig(t, input, 2)

	sorter, err := NewSorter(config)
	require.NoError(t, err)
	stats, err := sorter.Sort()
	require.NoError(t, err)

	assert.Equal(t, []shared.Record{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, readOutput(t, config.OutputPath))
	assert.Equal(t, 5, stats.Runs)
	assert.Equal(t, 4, stats.MergeSteps)
	assert.LessOrEqual(t, stats.PeakOpenRuns, 2)
	assert.LessOrEqual(t, stats.PeakBuffered, 2)
	assertNoRuns(t, config.TempDir)
}

func TestSorter_RandomWithCompressionAndVerify(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	records := make([]shared.Record, 5000)
	for i := range records {
		records[i] = shared.Record(rng.Int31n(1000) - 500)
	}
	input := writeInput(t, records)

	for _, k := range []int{2, 9, 128, 10000} {
		config := newTestConfig(t, input, k).WithCompress(true).WithVerify(true)

		sorter, err := NewSorter(config)
		require.NoError(t, err)
		stats, err := sorter.Sort()
		require.NoError(t, err, "k=%d", k)

		want := slices.Clone(records)
		slices.Sort(want)
		assert.Equal(t, want, readOutput(t, config.OutputPath), "k=%d", k)
		assert.LessOrEqual(t, stats.PeakOpenRuns, k)
		assert.LessOrEqual(t, stats.PeakBuffered, k)
		assertNoRuns(t, config.TempDir)
	}
}

func TestSorter_EmptyInput(t *testing.T) {
	input := writeInput(t, nil)
	config := newTestConfig(t, input, 4).WithVerify(true)

	sorter, err := NewSorter(config)
	require.NoError(t, err)
	stats, err := sorter.Sort()
	require.NoError(t, err)

	info, err := os.Stat(config.OutputPath)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
	assert.Zero(t, stats.Runs)
	assertNoRuns(t, config.TempDir)
}

func TestSorter_SingleChunk(t *testing.T) {
	input := writeInput(t, []shared.Record{3, -1, 2})
	config := newTestConfig(t, input, 3)

	sorter, err := NewSorter(config)
	require.NoError(t, err)
	stats, err := sorter.Sort()
	require.NoError(t, err)

	assert.Equal(t, []shared.Record{-1, 2, 3}, readOutput(t, config.OutputPath))
	assert.Equal(t, 1, stats.Runs)
	assert.Zero(t, stats.MergeSteps)
	assert.Zero(t, stats.PeakOpenRuns)
}

func TestSorter_OverwritesOutput(t *testing.T) {
	input := writeInput(t, []shared.Record{2, 1, 4, 3})
	config := newTestConfig(t, input, 2)
	require.NoError(t, os.WriteFile(config.OutputPath, []byte("stale output bytes"), 0644))

	sorter, err := NewSorter(config)
	require.NoError(t, err)
	_, err = sorter.Sort()
	require.NoError(t, err)
	assert.Equal(t, []shared.Record{1, 2, 3, 4}, readOutput(t, config.OutputPath))
}

func TestSorter_InvalidK(t *testing.T) {
	input := writeInput(t, []shared.Record{1, 2})
	for _, k := range []int{0, 1} {
		config := newTestConfig(t, input, k)

		_, err := NewSorter(config)
		assert.True(t, errors.Is(err, shared.ErrInvalidConfiguration))

		_, err = os.Stat(config.TempDir)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(config.OutputPath)
		assert.True(t, os.IsNotExist(err))
	}
}

func TestSorter_MissingInput(t *testing.T) {
	config := newTestConfig(t, filepath.Join(t.TempDir(), "absent.bin"), 3)

	sorter, err := NewSorter(config)
	require.NoError(t, err)
	_, err = sorter.Sort()
	assert.True(t, errors.Is(err, shared.ErrInputUnreadable))

	_, err = os.Stat(config.TempDir)
	assert.True(t, os.IsNotExist(err))
}

func TestSorter_MalformedInput(t *testing.T) {
	input := filepath.Join(t.TempDir(), "input.bin")
	require.NoError(t, os.WriteFile(input, []byte{1, 2, 3, 4, 5, 6}, 0644))
	config := newTestConfig(t, input, 3)

	sorter, err := NewSorter(config)
	require.NoError(t, err)
	_, err = sorter.Sort()
	assert.True(t, errors.Is(err, shared.ErrMalformedInput))
	assertNoRuns(t, config.TempDir)
}

func TestSorter_CleanupAfterFailure(t *testing.T) {
	input := writeInput(t, []shared.Record{4, 3, 2, 1, 0})
	config := newTestConfig(t, input, 2)
	config.OutputPath = filepath.Join(t.TempDir(), "missing", "sorted.bin")

	sorter, err := NewSorter(config)
	require.NoError(t, err)
	_, err = sorter.Sort()
	require.True(t, errors.Is(err, shared.ErrOutputUnwritable))

	entries, err := os.ReadDir(config.TempDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	require.NoError(t, sorter.Cleanup())
	assertNoRuns(t, config.TempDir)
}
