package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/AmrMurad1/Go-ExtSort/shared"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	config := NewDefaultConfig()
	var quiet bool

	flags := pflag.NewFlagSet("extsort", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&config.InputPath, "input", "i", "", "file of unsorted 4-byte integers")
	flags.StringVarP(&config.OutputPath, "output", "o", "", "file to write the sorted integers to")
	flags.IntVarP(&config.MaxInMemory, "max-in-memory", "k", 0, "maximum number of ints kept in memory at once, also the merge fan-in")
	flags.StringVar(&config.TempDir, "temp-dir", config.TempDir, "directory for run files")
	flags.BoolVar(&config.Compress, "compress", false, "s2-compress intermediate runs")
	flags.BoolVar(&config.Verify, "verify", false, "check order and contents of the output after sorting")
	flags.BoolVarP(&quiet, "quiet", "q", false, "no progress logging")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	logger := log.New(stderr, "", log.LstdFlags)
	if quiet {
		log.SetOutput(io.Discard)
	} else {
		log.SetOutput(stderr)
	}

	if err := prompt(config, flags, stdin, stdout); err != nil {
		logger.Println(err)
		return 1
	}

	sorter, err := NewSorter(config)
	if err != nil {
		logger.Println(err)
		return 1
	}

	stats, err := sorter.Sort()
	if err != nil {
		logger.Printf("sort failed: %v", err)
		if cerr := sorter.Cleanup(); cerr != nil {
			logger.Printf("cleanup failed: %v", cerr)
		}
		return 1
	}

	fmt.Fprintf(stdout, "sorted %d integers into %s\n", stats.Records, config.OutputPath)
	return 0
}

// prompt asks on stdin for whatever the flags left unset, in the order input
// path, output path, memory bound.
func prompt(config *Config, flags *pflag.FlagSet, stdin io.Reader, stdout io.Writer) error {
	scanner := bufio.NewScanner(stdin)
	ask := func(question string) (string, error) {
		fmt.Fprint(stdout, question)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: no answer to %q", shared.ErrInvalidConfiguration, strings.TrimSpace(question))
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	var err error
	if !flags.Changed("input") {
		if config.InputPath, err = ask("Enter the name/path of the file to sort: "); err != nil {
			return err
		}
	}
	if !flags.Changed("output") {
		if config.OutputPath, err = ask("Enter the name of the sorted file to output: "); err != nil {
			return err
		}
	}
	if !flags.Changed("max-in-memory") {
		answer, err := ask("Enter the maximum number of ints from the\nfile to keep in memory simultaneously: ")
		if err != nil {
			return err
		}
		config.MaxInMemory, err = strconv.Atoi(answer)
		if err != nil {
			return fmt.Errorf("%w: memory bound %q is not an integer", shared.ErrInvalidConfiguration, answer)
		}
	}
	return nil
}
