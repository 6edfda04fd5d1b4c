package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Load reads and parses a single CSV source.
func (l *Loader) Load(ctx context.Context, source string) ([]Row, []string, error) {
	start := time.Now()
	rc, err := l.Open(ctx, source)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", source, err)
	}
	defer rc.Close()

	rows, header, err := Parse(rc)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", source, err)
	}
	slog.Debug("loaded csv", "source", source, "rows", len(rows), "elapsed", time.Since(start))
	return rows, header, nil
}

// LoadSet fetches the main and KPI files concurrently. Both must succeed;
// the first failure cancels the other fetch and is returned.
func (l *Loader) LoadSet(ctx context.Context, mainSource, kpiSource string) (*Set, error) {
	var set Set
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, header, err := l.Load(ctx, mainSource)
		if err != nil {
			return err
		}
		set.Main, set.MainHeader = rows, header
		return nil
	})
	g.Go(func() error {
		rows, _, err := l.Load(ctx, kpiSource)
		if err != nil {
			return err
		}
		set.KPI = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &set, nil
}
