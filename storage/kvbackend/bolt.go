package kvbackend

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/meshstack/meshstack/storage"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

// Bolt is a file backed store. Each key is split at its last slash; the
// leading segments name a bucket and the last one is the key within it. A
// project's snapshots therefore share one bucket.
type Bolt struct {
	db *bolt.DB
}

// DefaultBoltFile returns the default location of the state database,
// ~/.meshstack/state.db.
func DefaultBoltFile() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", errors.Wrap(err, "current user")
	}
	return filepath.Join(u.HomeDir, ".meshstack", "state.db"), nil
}

// OpenBolt opens the database in file, creating the file and its directory
// if needed. Opening fails after a few seconds if another process holds the
// database.
func OpenBolt(file string) (*Bolt, error) {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}
	db, err := bolt.Open(file, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", file)
	}
	return &Bolt{db: db}, nil
}

// Path returns the database file.
func (b *Bolt) Path() string { return b.db.Path() }

// Close releases the database.
func (b *Bolt) Close() error { return b.db.Close() }

// Put creates or updates a value.
func (b *Bolt) Put(ctx context.Context, key string, value []byte) error {
	bucket, k, err := splitKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		buc, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return errors.Wrapf(err, "bucket %s", bucket)
		}
		return buc.Put(k, value)
	})
}

// Get returns a copy of a value.
func (b *Bolt) Get(ctx context.Context, key string) ([]byte, error) {
	bucket, k, err := splitKey(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err = b.db.View(func(tx *bolt.Tx) error {
		v := lookup(tx, bucket, k)
		if v == nil {
			return storage.ErrNotFound
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

// Delete removes a key.
func (b *Bolt) Delete(ctx context.Context, key string) error {
	bucket, k, err := splitKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		if lookup(tx, bucket, k) == nil {
			return storage.ErrNotFound
		}
		return errors.Wrap(tx.Bucket(bucket).Delete(k), "delete")
	})
}

// Scan returns the values in the bucket named prefix. Keys in nested buckets
// are not included.
func (b *Bolt) Scan(ctx context.Context, prefix string) (map[string][]byte, error) {
	if prefix == "" || strings.HasPrefix(prefix, "/") || strings.HasSuffix(prefix, "/") {
		return nil, &storage.KeyError{Key: prefix, Reason: "prefix must be a bucket name"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte)
	err := b.db.View(func(tx *bolt.Tx) error {
		buc := tx.Bucket([]byte(prefix))
		if buc == nil {
			return nil
		}
		return buc.ForEach(func(k, v []byte) error {
			if v != nil {
				out[prefix+"/"+string(k)] = append([]byte(nil), v...)
			}
			return nil
		})
	})
	return out, err
}

// lookup returns the value of k in bucket, or nil if either is missing.
func lookup(tx *bolt.Tx, bucket, k []byte) []byte {
	buc := tx.Bucket(bucket)
	if buc == nil {
		return nil
	}
	v := buc.Get(k)
	if len(v) == 0 {
		return nil
	}
	return v
}

// splitKey splits a key at its last slash.
//
//   colors/VpcStack     -> bucket colors, key VpcStack
//   team/colors/VpcStack -> bucket team/colors, key VpcStack
func splitKey(key string) (bucket, k []byte, err error) {
	i := strings.LastIndex(key, "/")
	switch {
	case i == -1:
		return nil, nil, &storage.KeyError{Key: key, Reason: "no bucket"}
	case i == 0 || strings.HasPrefix(key, "/"):
		return nil, nil, &storage.KeyError{Key: key, Reason: "empty bucket"}
	case i == len(key)-1:
		return nil, nil, &storage.KeyError{Key: key, Reason: "empty name"}
	}
	return []byte(key[:i]), []byte(key[i+1:]), nil
}
