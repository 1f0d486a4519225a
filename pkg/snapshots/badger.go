package snapshots

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"github.com/carverauto/activityradar/pkg/consolidation"
	"github.com/carverauto/activityradar/pkg/models"
)

const badgerKeyPrefix = "snapshot/"

// BadgerConfig locates the embedded store. InMemory ignores Path.
type BadgerConfig struct {
	Path     string
	InMemory bool
}

// BadgerStore keeps the latest snapshot per service in an embedded badger database.
type BadgerStore struct {
	db     *badger.DB
	closed atomic.Bool
}

var (
	_ consolidation.Publisher = (*BadgerStore)(nil)
	_ Reader                  = (*BadgerStore)(nil)
)

// OpenBadgerStore opens or creates the store.
func OpenBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithCompression(options.Snappy).
		WithNumVersionsToKeep(1).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

func badgerKey(serviceID string) []byte {
	return []byte(badgerKeyPrefix + serviceID)
}

// Publish stores every snapshot, replacing any earlier one for the same service.
func (s *BadgerStore) Publish(ctx context.Context, snapshots []models.Snapshot) error {
	if s.closed.Load() {
		return errStoreClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range snapshots {
		data, err := models.EncodeSnapshot(&snapshots[i])
		if err != nil {
			return err
		}

		if err := wb.Set(badgerKey(snapshots[i].ServiceID), data); err != nil {
			return fmt.Errorf("failed to stage snapshot for %s: %w", snapshots[i].ServiceID, err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to write snapshots: %w", err)
	}

	return nil
}

// Get returns the stored snapshot of serviceID.
func (s *BadgerStore) Get(_ context.Context, serviceID string) (*models.Snapshot, error) {
	if s.closed.Load() {
		return nil, errStoreClosed
	}

	var data []byte

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(serviceID))
		if err != nil {
			return err
		}

		data, err = item.ValueCopy(nil)

		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot for %s: %w", serviceID, err)
	}

	return models.DecodeSnapshot(data)
}

// List returns every stored snapshot ordered by service id.
func (s *BadgerStore) List(ctx context.Context) ([]models.Snapshot, error) {
	if s.closed.Load() {
		return nil, errStoreClosed
	}

	var out []models.Snapshot

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			err := it.Item().Value(func(val []byte) error {
				snap, err := models.DecodeSnapshot(val)
				if err != nil {
					return err
				}

				out = append(out, *snap)

				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	return out, nil
}

func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	return s.db.Close()
}
