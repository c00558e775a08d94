package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/quantbeam/live-scanner/src/eventmodels"
)

// CsvFeed replays per-symbol one-minute history files. Each symbol's rows live
// in <dir>/<symbol>.csv with time/open/high/low/close/volume columns. The
// per-symbol streams are merged by timestamp, so the handler sees the same
// interleaving a live multi-symbol feed would produce.
type CsvFeed struct {
	dir     string
	symbols []eventmodels.Symbol
}

func NewCsvFeed(dir string, symbols []eventmodels.Symbol) *CsvFeed {
	return &CsvFeed{
		dir:     dir,
		symbols: symbols,
	}
}

func (f *CsvFeed) Run(ctx context.Context, handler BarHandler) error {
	var streams [][]eventmodels.Bar
	for _, symbol := range f.symbols {
		bars, err := f.load(symbol)
		if err != nil {
			return fmt.Errorf("CsvFeed.Run: %w", err)
		}

		if len(bars) == 0 {
			log.Warnf("replay file for %s is empty", symbol)
			continue
		}

		streams = append(streams, bars)
	}

	cursors := make([]int, len(streams))
	replayed := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		best := -1
		for i, stream := range streams {
			if cursors[i] >= len(stream) {
				continue
			}

			if best == -1 || stream[cursors[i]].Timestamp.Before(streams[best][cursors[best]].Timestamp) {
				best = i
			}
		}

		if best == -1 {
			break
		}

		bar := streams[best][cursors[best]]
		cursors[best]++

		if err := handler(bar); err != nil {
			return fmt.Errorf("CsvFeed.Run: handler: %w", err)
		}

		replayed++
	}

	log.Infof("replayed %d bars from %s", replayed, f.dir)
	return nil
}

func (f *CsvFeed) load(symbol eventmodels.Symbol) ([]eventmodels.Bar, error) {
	path := filepath.Join(f.dir, fmt.Sprintf("%s.csv", symbol))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CsvFeed.load: %w", err)
	}
	defer file.Close()

	var rows []*eventmodels.CsvBarDTO
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("CsvFeed.load: failed to unmarshal %s: %w", path, err)
	}

	bars := make([]eventmodels.Bar, 0, len(rows))
	for _, dto := range rows {
		bar, err := dto.ToModel(symbol)
		if err != nil {
			return nil, fmt.Errorf("CsvFeed.load: %s: %w", path, err)
		}

		bars = append(bars, bar)
	}

	// export tools don't guarantee row order
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Timestamp.Before(bars[j].Timestamp)
	})

	return bars, nil
}
