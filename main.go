// Command dtfmt prints microsecond counts as instant, date and duration
// in canonical text forms.
//
//	dtfmt [flags] [microseconds...]
//
// Counts are read from arguments or, when none are given, one per line from stdin.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/gwos/datetime/batcher"
	"github.com/gwos/datetime/config"
	"github.com/gwos/datetime/diag"
	"github.com/gwos/datetime/errors"
	"github.com/rs/zerolog/log"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	cfg, counts, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if cfg.PrintVersion {
		fmt.Fprintln(stdout, config.GetBuildInfo())
		return 0
	}
	log.Debug().
		Str("configPath", cfg.ConfigPath()).
		Str("output", cfg.Output).
		Msg("dtfmt started")

	enc, err := diag.Lookup(cfg.Output)
	if err != nil {
		log.Err(err).Msg("could not write output")
		return 1
	}

	facet := cfg.Facet()
	failed := atomic.Bool{}
	parse := func(s string) (diag.Record, bool) {
		us, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			failed.Store(true)
			log.Warn().Err(fmt.Errorf("%w: %v", errors.ErrBadCount, err)).
				Str("input", s).
				Msg("skipping input")
			return diag.Record{}, false
		}
		return diag.NewRecord(facet, us), true
	}

	count := 0
	if len(counts) > 0 {
		records := make([]diag.Record, 0, len(counts))
		for _, s := range counts {
			if r, ok := parse(s); ok {
				records = append(records, r)
			}
		}
		if err := enc(stdout, records); err != nil {
			log.Err(err).Str("output", cfg.Output).Msg("could not write output")
			return 1
		}
		count = len(records)
	} else {
		written, writeErr, err := stream(cfg, enc, parse, stdin, stdout)
		if err != nil {
			log.Err(err).Msg("could not read input")
			return 1
		}
		if writeErr {
			failed.Store(true)
		}
		count = written
	}

	log.Info().Int("records", count).Msg("done")
	if failed.Load() {
		return 1
	}
	return 0
}

// stream reads counts from stdin line by line, flushing records by length and interval.
// It returns the number of records written and whether any batch failed to write.
func stream(cfg *config.Config, enc diag.Encoder, parse func(string) (diag.Record, bool),
	stdin io.Reader, stdout io.Writer) (int, bool, error) {
	written, writeErr := 0, false
	bt := batcher.NewBatcher("stdin", func(records []diag.Record) error {
		if err := enc(stdout, records); err != nil {
			writeErr = true
			return err
		}
		written += len(records)
		return nil
	}, cfg.BatchInterval, cfg.BatchMaxLen)
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		if r, ok := parse(scanner.Text()); ok {
			bt.Add(r)
		}
	}
	bt.Exit()
	return written, writeErr, scanner.Err()
}
