package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/poiesic/gearlog/store"
)

// KV is the slice of the persistence layer the inventory service uses.
// *store.Store satisfies it; tests may substitute their own.
type KV interface {
	Put(ctx context.Context, key string, value any) error
	Get(ctx context.Context, key string, out any) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	ExportAll(ctx context.Context) (map[string]json.RawMessage, error)
	ImportAll(ctx context.Context, mapping map[string]json.RawMessage) error
}

// Service implements the equipment-tracking operations over a KV store.
// It performs read-modify-write cycles on the single collections
// document; callers in different goroutines must serialize themselves
// if cross-call ordering matters.
type Service struct {
	kv     KV
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates an inventory service over kv.
func NewService(kv KV, opts ...Option) (*Service, error) {
	if kv == nil {
		return nil, ErrStoreRequired
	}
	s := &Service{
		kv:     kv,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// load reads the collections document. A store with no document yet is
// an empty tracker, not an error.
func (s *Service) load(ctx context.Context) (Collections, error) {
	var collections Collections
	err := s.kv.Get(ctx, CollectionsKey, &collections)
	if errors.Is(err, store.ErrNotFound) {
		return Collections{}, nil
	}
	if err != nil {
		return nil, err
	}
	if collections == nil {
		collections = Collections{}
	}
	return collections, nil
}

func (s *Service) save(ctx context.Context, collections Collections) error {
	return s.kv.Put(ctx, CollectionsKey, collections)
}

// Collections returns every collection name in lexical order.
func (s *Service) Collections(ctx context.Context) ([]string, error) {
	collections, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(collections)), nil
}

// CreateCollection creates an empty collection.
func (s *Service) CreateCollection(ctx context.Context, name string) error {
	if err := ValidateCollectionName(name); err != nil {
		return err
	}
	collections, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := collections[name]; ok {
		return ErrCollectionExists
	}
	collections[name] = []EquipmentRecord{}
	return s.save(ctx, collections)
}

// DeleteCollection removes a collection and all its records.
func (s *Service) DeleteCollection(ctx context.Context, name string) error {
	collections, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := collections[name]; !ok {
		return ErrCollectionNotFound
	}
	delete(collections, name)
	return s.save(ctx, collections)
}

// AddRecord validates record and appends it to collection, creating
// the collection if it does not exist yet. A zero AddedAt is set to
// the current time.
func (s *Service) AddRecord(ctx context.Context, collection string, record EquipmentRecord) error {
	if err := ValidateCollectionName(collection); err != nil {
		return err
	}
	if err := ValidateRecord(&record); err != nil {
		return err
	}
	if record.AddedAt.IsZero() {
		record.AddedAt = time.Now().UTC()
	}

	collections, err := s.load(ctx)
	if err != nil {
		return err
	}
	collections[collection] = append(collections[collection], record)
	return s.save(ctx, collections)
}

// Records returns the ordered records of a collection.
func (s *Service) Records(ctx context.Context, collection string) ([]EquipmentRecord, error) {
	collections, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	records, ok := collections[collection]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	return slices.Clone(records), nil
}

// RemoveRecord deletes the first record in collection whose fingerprint
// matches fp.
func (s *Service) RemoveRecord(ctx context.Context, collection string, fp Fingerprint) error {
	collections, err := s.load(ctx)
	if err != nil {
		return err
	}
	records, ok := collections[collection]
	if !ok {
		return ErrCollectionNotFound
	}
	idx := slices.IndexFunc(records, func(r EquipmentRecord) bool {
		return r.Fingerprint() == fp
	})
	if idx < 0 {
		return ErrRecordNotFound
	}
	collections[collection] = slices.Delete(records, idx, idx+1)
	return s.save(ctx, collections)
}

// Backup returns the full contents of the active backend for external
// safekeeping.
func (s *Service) Backup(ctx context.Context) (map[string]json.RawMessage, error) {
	return s.kv.ExportAll(ctx)
}

// Restore writes a backup mapping into the active backend. Restoration
// is best-effort, not atomic: a failure part way through leaves earlier
// keys applied.
func (s *Service) Restore(ctx context.Context, mapping map[string]json.RawMessage) error {
	return s.kv.ImportAll(ctx, mapping)
}

// Reset clears the active backend entirely.
func (s *Service) Reset(ctx context.Context) error {
	return s.kv.Clear(ctx)
}
