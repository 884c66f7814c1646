package persist

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-mudcore/internal/storage"
	bbolt "go.etcd.io/bbolt"
)

// ActorBucket is the bucket actor snapshots are kept in.
const ActorBucket = "actors"

// BoltStore is a storage.Storer backed by one bbolt bucket. Values are
// stored as JSON assets, the same envelope the file store writes.
type BoltStore[T storage.ValidatingSpec] struct {
	db     *bbolt.DB
	bucket []byte
}

// OpenBoltStore opens or creates the database file and the bucket.
func OpenBoltStore[T storage.ValidatingSpec](path, bucket string) (*BoltStore[T], error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
	}

	return &BoltStore[T]{db: db, bucket: []byte(bucket)}, nil
}

func (s *BoltStore[T]) Close() error {
	return s.db.Close()
}

func (s *BoltStore[T]) Save(id string, spec T) error {
	asset := storage.NewAsset(id, spec)
	if err := asset.Validate(); err != nil {
		return fmt.Errorf("validating %s: %w", id, err)
	}

	data, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(id), data)
	})
}

// Get returns the stored value for id. Values that no longer decode are
// reported as missing.
func (s *BoltStore[T]) Get(id string) (T, bool) {
	var out T
	found := false

	_ = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(s.bucket).Get([]byte(id))
		if data == nil {
			return nil
		}
		asset, err := decode[T](data)
		if err != nil {
			return err
		}
		out, found = asset.Spec, true
		return nil
	})

	return out, found
}

func (s *BoltStore[T]) GetAll() map[string]T {
	all := map[string]T{}

	_ = s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, v []byte) error {
			asset, err := decode[T](v)
			if err != nil {
				// Undecodable records are left out.
				return nil
			}
			all[string(k)] = asset.Spec
			return nil
		})
	})

	return all
}

func decode[T storage.ValidatingSpec](data []byte) (*storage.Asset[T], error) {
	asset := &storage.Asset[T]{}
	if err := json.Unmarshal(data, asset); err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	return asset, nil
}
