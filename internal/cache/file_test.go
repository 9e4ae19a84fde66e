package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polycubes/internal/polycube"
)

func TestFileStore_Miss(t *testing.T) {
	s := NewFileStore(t.TempDir())

	shapes, ok, err := s.Load(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, shapes)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "cache"))
	shapes := tetracubes(t)

	require.NoError(t, s.Save(ctx, 4, shapes))
	assert.FileExists(t, filepath.Join(s.Dir, "cubes_4.bin"))

	got, ok, err := s.Load(ctx, 4)
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(shapes, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(s.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestFileStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())

	require.NoError(t, s.Save(ctx, 4, tetracubes(t)))
	require.NoError(t, s.Save(ctx, 4, tetracubes(t)[:1]))

	got, ok, err := s.Load(ctx, 4)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, polycube.Equal(polycube.Bar(4), got[0]))
}

func TestFileStore_CorruptFile(t *testing.T) {
	s := NewFileStore(t.TempDir())
	require.NoError(t, os.WriteFile(s.Path(3), []byte("garbage"), 0644))

	_, ok, err := s.Load(context.Background(), 3)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrDecode)
	assert.NotErrorIs(t, err, ErrIO)
}

func TestFileStore_EntryForOtherSize(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(t.TempDir())
	require.NoError(t, s.Save(ctx, 4, tetracubes(t)))
	require.NoError(t, os.Rename(s.Path(4), s.Path(6)))

	_, _, err := s.Load(ctx, 6)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestFileStore_IOErrors(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s := NewFileStore(blocker)

	_, _, err := s.Load(ctx, 3)
	assert.ErrorIs(t, err, ErrIO)

	err = s.Save(ctx, 1, []polycube.Grid{polycube.Unit()})
	assert.ErrorIs(t, err, ErrIO)
}

func TestFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewFileStore(t.TempDir())

	err := s.Save(ctx, 1, []polycube.Grid{polycube.Unit()})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, s.Path(1))

	_, _, err = s.Load(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
