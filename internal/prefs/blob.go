// ABOUTME: gocloud.dev/blob implementation of the preference Store
// ABOUTME: Keeps one JSON array object per entry under an optional prefix

package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

// BlobStore implements Store on top of a gocloud bucket
type BlobStore struct {
	bucket *blob.Bucket
	prefix string
	owns   bool
	logger *slog.Logger
}

// OpenBlobStore opens the bucket at bucketURL (file://, mem://, ...).
// The store owns the bucket and closes it on Close.
func OpenBlobStore(ctx context.Context, bucketURL, prefix string) (*BlobStore, error) {
	if dir, ok := strings.CutPrefix(bucketURL, "file://"); ok {
		if err := os.MkdirAll(filepath.FromSlash(dir), 0755); err != nil {
			return nil, fmt.Errorf("creating bucket directory %s: %w", dir, err)
		}
	}

	bkt, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("opening bucket %q: %w", bucketURL, err)
	}
	return newBlobStore(bkt, prefix, true), nil
}

// NewMemoryBlobStore creates an in-memory blob store for testing.
func NewMemoryBlobStore(prefix string) *BlobStore {
	return newBlobStore(memblob.OpenBucket(nil), prefix, true)
}

// NewBlobStore wraps an existing bucket. The caller keeps ownership of bkt.
func NewBlobStore(bkt *blob.Bucket, prefix string) *BlobStore {
	return newBlobStore(bkt, prefix, false)
}

func newBlobStore(bkt *blob.Bucket, prefix string, owns bool) *BlobStore {
	return &BlobStore{
		bucket: bkt,
		prefix: strings.Trim(prefix, "/"),
		owns:   owns,
		logger: slog.Default().With("component", "prefs"),
	}
}

func (s *BlobStore) objectKey(key string) string {
	if s.prefix == "" {
		return key + ".json"
	}
	return path.Join(s.prefix, key+".json")
}

// GetStringSet returns the members stored under key.
func (s *BlobStore) GetStringSet(ctx context.Context, key string) ([]string, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	data, err := s.bucket.ReadAll(ctx, s.objectKey(key))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading preference %q: %w", key, err)
	}

	return s.decode(key, data), true, nil
}

// decode reads a stored JSON array, keeping its string members. Members of any
// other type are skipped, and an object that is not an array reads as empty.
func (s *BlobStore) decode(key string, data []byte) []string {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("ignoring malformed preference", "key", key, "error", err)
		return []string{}
	}

	members := make([]string, 0, len(raw))
	for _, r := range raw {
		var member string
		if err := json.Unmarshal(r, &member); err != nil {
			s.logger.Warn("skipping malformed preference member", "key", key, "member", string(r))
			continue
		}
		members = append(members, member)
	}
	return members
}

// PutStringSet replaces the object stored under key.
func (s *BlobStore) PutStringSet(ctx context.Context, key string, values []string) error {
	if key == "" {
		return ErrEmptyKey
	}

	members := normalize(values)
	data, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encoding preference %q: %w", key, err)
	}

	opts := &blob.WriterOptions{ContentType: "application/json"}
	if err := s.bucket.WriteAll(ctx, s.objectKey(key), data, opts); err != nil {
		return fmt.Errorf("writing preference %q: %w", key, err)
	}

	s.logger.Debug("preference written", "key", key, "members", len(members))
	return nil
}

// Close closes the bucket if the store opened it.
func (s *BlobStore) Close() error {
	if s.owns && s.bucket != nil {
		return s.bucket.Close()
	}
	return nil
}
