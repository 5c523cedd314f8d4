package inventory

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// ImportResult summarizes a bulk CSV import.
type ImportResult struct {
	Files    int      // files attempted
	Imported int      // records appended
	Skipped  int      // records dropped as duplicates by fingerprint
	Failed   []string // files that could not be read or parsed
}

type bulkConfig struct {
	poolSize int
}

// BulkOption configures a bulk import.
type BulkOption func(*bulkConfig)

// WithPoolSize sets the worker pool size for concurrent file parsing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) BulkOption {
	return func(c *bulkConfig) {
		if size < 1 {
			size = 1
		}
		c.poolSize = size
	}
}

// ImportCSVFiles parses the given CSV files concurrently on a worker
// pool and appends their records to collection. Files that fail to
// read or parse are logged and skipped; records whose fingerprint is
// already present in the collection (or earlier in the batch) are
// skipped. Parsing fans out; the store write is a single sequential
// save at the end.
func (s *Service) ImportCSVFiles(ctx context.Context, collection string, paths []string, opts ...BulkOption) (*ImportResult, error) {
	if err := ValidateCollectionName(collection); err != nil {
		return nil, err
	}

	cfg := bulkConfig{poolSize: runtime.NumCPU() / 2}
	if cfg.poolSize < 1 {
		cfg.poolSize = 1
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	pool, err := ants.NewPool(cfg.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	type parsedFile struct {
		path    string
		records []EquipmentRecord
		err     error
	}

	parsed := make([]parsedFile, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			records, err := parseCSVFile(path)
			parsed[i] = parsedFile{path: path, records: records, err: err}
		})
		if submitErr != nil {
			parsed[i] = parsedFile{path: path, err: submitErr}
			wg.Done()
		}
	}
	wg.Wait()

	collections, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[Fingerprint]bool, len(collections[collection]))
	for _, record := range collections[collection] {
		seen[record.Fingerprint()] = true
	}

	result := &ImportResult{Files: len(paths)}
	for _, file := range parsed {
		if file.err != nil {
			s.logger.Warn("skipping import file", "file", file.path, "err", file.err)
			result.Failed = append(result.Failed, file.path)
			continue
		}
		for _, record := range file.records {
			fp := record.Fingerprint()
			if seen[fp] {
				result.Skipped++
				continue
			}
			seen[fp] = true
			if record.AddedAt.IsZero() {
				record.AddedAt = time.Now().UTC()
			}
			collections[collection] = append(collections[collection], record)
			result.Imported++
		}
	}

	if err := s.save(ctx, collections); err != nil {
		return nil, err
	}
	return result, nil
}

func parseCSVFile(path string) ([]EquipmentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(f)
}
