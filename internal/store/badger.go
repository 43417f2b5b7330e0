// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Key prefixes for BadgerDB storage
const (
	userKeyPrefix        = "user:"
	productKeyPrefix     = "product:"
	contextKeyPrefix     = "context:"
	interactionKeyPrefix = "interaction:"

	interactionSeqKey = "seq:interaction"
)

// ErrClosed is returned when the store has been closed.
var ErrClosed = errors.New("store is closed")

// Config contains store configuration.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string `json:"path"`

	// InMemory keeps the database in memory only.
	InMemory bool `json:"in_memory"`

	// SyncWrites fsyncs every write.
	SyncWrites bool `json:"sync_writes"`

	// SequenceBandwidth is how many interaction IDs are leased at a time.
	// Default: 100.
	SequenceBandwidth uint64 `json:"sequence_bandwidth"`

	// GCRatio is the value log discard ratio for garbage collection.
	// Default: 0.5.
	GCRatio float64 `json:"gc_ratio"`
}

// DefaultConfig returns an in-memory configuration.
func DefaultConfig() Config {
	return Config{
		InMemory:          true,
		SequenceBandwidth: 100,
		GCRatio:           0.5,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return fmt.Errorf("store.path is required unless store.in_memory is set")
	}
	if c.GCRatio <= 0 || c.GCRatio >= 1 {
		return fmt.Errorf("store.gc_ratio must be in (0, 1), got %f", c.GCRatio)
	}
	return nil
}

// Store implements recommend.Gateway using BadgerDB.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	config Config
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the store.
//
//nolint:gocritic // hugeParam: logger passed by value is acceptable for zerolog
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	if cfg.SequenceBandwidth == 0 {
		cfg.SequenceBandwidth = 100
	}
	if cfg.GCRatio == 0 {
		cfg.GCRatio = 0.5
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	seq, err := db.GetSequence([]byte(interactionSeqKey), cfg.SequenceBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open interaction sequence: %w", err)
	}

	s := &Store{
		db:     db,
		seq:    seq,
		config: cfg,
		logger: logger.With().Str("component", "store").Logger(),
	}

	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("store opened")
	return s, nil
}

// Close releases the interaction sequence and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.seq.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release sequence: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close BadgerDB: %w", err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	s.logger.Info().Msg("store closed")
	return nil
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func idKey(prefix string, id uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefix, id))
}

func checkID(kind string, id int) error {
	if id < 0 {
		return fmt.Errorf("%w: %s %d is negative", recommend.ErrInvalidIdentifier, kind, id)
	}
	return nil
}

func (s *Store) put(key []byte, v any) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// get decodes the value at key into v. It reports false when the key is missing.
func (s *Store) get(key []byte, v any) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}

	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", key, err)
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// scan decodes every value under prefix in key order.
func scan[T any](ctx context.Context, s *Store, prefix string) ([]T, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var out []T
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var v T
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PutUser creates or replaces a user.
func (s *Store) PutUser(_ context.Context, u recommend.User) error {
	if err := checkID("user", u.ID); err != nil {
		return err
	}
	return s.put(idKey(userKeyPrefix, uint64(u.ID)), &u)
}

// PutProduct creates or replaces a product.
func (s *Store) PutProduct(_ context.Context, p recommend.Product) error {
	if err := checkID("product", p.ID); err != nil {
		return err
	}
	return s.put(idKey(productKeyPrefix, uint64(p.ID)), &p)
}

// PutUserContext creates or replaces a user's context record.
func (s *Store) PutUserContext(_ context.Context, c recommend.UserContext) error {
	if err := checkID("user", c.UserID); err != nil {
		return err
	}
	return s.put(idKey(contextKeyPrefix, uint64(c.UserID)), &c)
}

// ListUsers returns every user ordered by ID.
func (s *Store) ListUsers(ctx context.Context) ([]recommend.User, error) {
	return scan[recommend.User](ctx, s, userKeyPrefix)
}

// ListProducts returns the catalog ordered by ID.
func (s *Store) ListProducts(ctx context.Context) ([]recommend.Product, error) {
	return scan[recommend.Product](ctx, s, productKeyPrefix)
}

// ListInteractions returns every interaction ordered by ID.
func (s *Store) ListInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	return scan[recommend.Interaction](ctx, s, interactionKeyPrefix)
}

// ListUserContexts returns every stored context record ordered by user ID.
func (s *Store) ListUserContexts(ctx context.Context) ([]recommend.UserContext, error) {
	return scan[recommend.UserContext](ctx, s, contextKeyPrefix)
}

// GetUser returns a user, or recommend.ErrUnknownUser.
func (s *Store) GetUser(_ context.Context, id int) (*recommend.User, error) {
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	var u recommend.User
	found, err := s.get(idKey(userKeyPrefix, uint64(id)), &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %d", recommend.ErrUnknownUser, id)
	}
	return &u, nil
}

// GetProduct returns a product, or recommend.ErrUnknownProduct.
func (s *Store) GetProduct(_ context.Context, id int) (*recommend.Product, error) {
	if err := checkID("product", id); err != nil {
		return nil, err
	}
	var p recommend.Product
	found, err := s.get(idKey(productKeyPrefix, uint64(id)), &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %d", recommend.ErrUnknownProduct, id)
	}
	return &p, nil
}

// InsertInteraction appends an interaction under the next sequence ID and
// returns it with the ID set. A zero timestamp is replaced with now.
func (s *Store) InsertInteraction(_ context.Context, in recommend.Interaction) (recommend.Interaction, error) {
	if err := s.checkOpen(); err != nil {
		return recommend.Interaction{}, err
	}

	n, err := s.seq.Next()
	if err != nil {
		return recommend.Interaction{}, fmt.Errorf("next interaction id: %w", err)
	}
	// Badger sequences start at zero; interaction IDs start at one.
	in.ID = n + 1
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}

	if err := s.put(idKey(interactionKeyPrefix, in.ID), &in); err != nil {
		return recommend.Interaction{}, fmt.Errorf("store interaction: %w", err)
	}
	return in, nil
}

// RunGC triggers BadgerDB value log garbage collection until nothing is left
// to rewrite. It is a no-op for in-memory stores.
func (s *Store) RunGC() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.config.InMemory {
		return nil
	}

	// Run GC until no more cleanup is possible
	for {
		err := s.db.RunValueLogGC(s.config.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Compile-time interface assertion
var _ recommend.Gateway = (*Store)(nil)
