package monitor

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"pumpstream/internal/solanakey"
	"pumpstream/internal/subscription"
)

// readSeedFile parses a tracking file with one mint per line. Blank lines
// and lines starting with # are skipped.
func readSeedFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	var mints []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		mints = append(mints, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return mints, nil
}

// Seed pre-populates the trade desired set from an optional tracking file
// and from mints already present in storage, so a restart resumes coverage
// of everything seen before. Invalid mints are logged and skipped. The
// desired set is pushed to the server by Run's initial reconcile.
func (r *Runner) Seed(ctx context.Context, seedFile string) error {
	var mints []string

	if seedFile != "" {
		fromFile, err := readSeedFile(seedFile)
		if err != nil {
			return err
		}
		mints = append(mints, fromFile...)
	}

	fromStore, err := r.store.DistinctMints(ctx)
	if err != nil {
		return fmt.Errorf("load stored mints: %w", err)
	}
	mints = append(mints, fromStore...)

	added := 0
	for _, mint := range mints {
		if !solanakey.Valid(mint) {
			r.logger.Printf("[monitor] skipping invalid seed mint %q", mint)
			continue
		}
		if r.manager.Add(subscription.KindTokenTrade, mint) {
			added++
		}
	}

	if added > 0 {
		r.logger.Printf("[monitor] seeded %d token(s)", added)
	}
	return nil
}
