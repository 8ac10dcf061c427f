package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/AmrMurad1/Go-ExtSort/fingerprint"
	"github.com/AmrMurad1/Go-ExtSort/runs"
	"github.com/AmrMurad1/Go-ExtSort/shared"
)

type Stats struct {
	runs.Stats
	Records  int64
	Duration time.Duration
}

// Sorter runs one external sort: it splits the input into sorted runs and
// merges them into the output file.
type Sorter struct {
	config  *Config
	manager *runs.Manager
}

func NewSorter(config *Config) (*Sorter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Sorter{config: config}, nil
}

// Sort performs the sort. On failure the output may be missing or partial and
// run files may be left in the temp dir; see Cleanup.
func (s *Sorter) Sort() (*Stats, error) {
	start := time.Now()

	in, err := os.Open(s.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInputUnreadable, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInputUnreadable, err)
	}
	total, err := shared.RecordCount(info.Size())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.config.InputPath, err)
	}

	log.Printf("setup run path: %s...", s.config.TempDir)
	s.manager, err = runs.NewManager(s.config.runsConfig())
	if err != nil {
		log.Printf("setup failed: %v", err)
		return nil, err
	}

	var digest *fingerprint.Digest
	generator := runs.NewGenerator(s.manager, s.config.MaxInMemory)
	if s.config.Verify {
		digest = fingerprint.New()
		generator.Visit = digest.AddAll
	}

	reader := bufio.NewReaderSize(in, s.config.runsConfig().ReadBufferSize)
	runCount, err := generator.Generate(reader, info.Size())
	if err != nil {
		return nil, err
	}
	if err := in.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrInputUnreadable, err)
	}

	log.Printf("merging %d runs into %s", runCount, s.config.OutputPath)
	if err := runs.MergeRuns(s.manager, s.config.MaxInMemory, s.config.OutputPath); err != nil {
		return nil, err
	}

	if s.config.Verify {
		if err := s.verify(digest); err != nil {
			return nil, err
		}
	}

	stats := &Stats{
		Stats:    s.manager.Stats(),
		Records:  total,
		Duration: time.Since(start),
	}
	log.Printf("sorted %d records into %s in %s (%d runs, %d merge steps)",
		stats.Records, s.config.OutputPath, stats.Duration, stats.Runs, stats.MergeSteps)
	return stats, nil
}

func (s *Sorter) verify(want *fingerprint.Digest) error {
	out, err := os.Open(s.config.OutputPath)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrVerification, err)
	}
	defer out.Close()

	got, err := fingerprint.Check(bufio.NewReaderSize(out, s.config.runsConfig().ReadBufferSize))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", shared.ErrVerification, s.config.OutputPath, err)
	}
	if !got.Equal(want) {
		return fmt.Errorf("%w: input digest %s, output digest %s", shared.ErrVerification, want, got)
	}

	log.Printf("verified %s: %s", s.config.OutputPath, got)
	return nil
}

// Cleanup removes run files left behind by a failed Sort.
func (s *Sorter) Cleanup() error {
	if s.manager == nil {
		return nil
	}
	return s.manager.Cleanup()
}
