// ABOUTME: Tests for the gocloud blob preference store
// ABOUTME: Covers object layout, durability across reopen and corrupt objects

package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestBlobStore_ObjectLayout(t *testing.T) {
	ctx := context.Background()
	bkt := memblob.OpenBucket(nil)
	defer bkt.Close()

	s := NewBlobStore(bkt, "/prefs/")
	require.NoError(t, s.PutStringSet(ctx, "PREF_MARKINGS", []string{"9", "10"}))
	// Borrowed buckets stay open
	require.NoError(t, s.Close())

	data, err := bkt.ReadAll(ctx, "prefs/PREF_MARKINGS.json")
	require.NoError(t, err)
	assert.JSONEq(t, `["10","9"]`, string(data))
}

func TestBlobStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	url := "file://" + filepath.ToSlash(filepath.Join(t.TempDir(), "bucket"))

	s, err := OpenBlobStore(ctx, url, "marker")
	require.NoError(t, err)
	require.NoError(t, s.PutStringSet(ctx, "PREF_MARKINGS", []string{"100"}))
	require.NoError(t, s.Close())

	reopened, err := OpenBlobStore(ctx, url, "marker")
	require.NoError(t, err)
	defer reopened.Close()

	values, ok, err := reopened.GetStringSet(ctx, "PREF_MARKINGS")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"100"}, values)
}

func TestBlobStore_CorruptObject(t *testing.T) {
	ctx := context.Background()
	bkt := memblob.OpenBucket(nil)
	defer bkt.Close()

	require.NoError(t, bkt.WriteAll(ctx, "PREF_MARKINGS.json", []byte("not json"), nil))

	s := NewBlobStore(bkt, "")
	values, ok, err := s.GetStringSet(ctx, "PREF_MARKINGS")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, values)

	// The next write replaces the corrupt object
	require.NoError(t, s.PutStringSet(ctx, "PREF_MARKINGS", []string{"3"}))
	values, _, err = s.GetStringSet(ctx, "PREF_MARKINGS")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, values)
}

func TestBlobStore_NonStringMembers(t *testing.T) {
	ctx := context.Background()
	bkt := memblob.OpenBucket(nil)
	defer bkt.Close()

	require.NoError(t, bkt.WriteAll(ctx, "PREF_MARKINGS.json", []byte(`["5", 7, null, {"id": "9"}, "abc", "20"]`), nil))

	s := NewBlobStore(bkt, "")
	values, ok, err := s.GetStringSet(ctx, "PREF_MARKINGS")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"5", "abc", "20"}, values)
}

func TestBlobStore_NotAnArray(t *testing.T) {
	ctx := context.Background()
	bkt := memblob.OpenBucket(nil)
	defer bkt.Close()

	require.NoError(t, bkt.WriteAll(ctx, "PREF_MARKINGS.json", []byte(`{"members": ["5"]}`), nil))

	s := NewBlobStore(bkt, "")
	values, ok, err := s.GetStringSet(ctx, "PREF_MARKINGS")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, values)
}
