package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/posetrail/pkg/errors"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewRecord(t *testing.T) {
	a := NewRecord("walk")
	b := NewRecord("walk")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, StatusOK, a.Status)
	assert.False(t, a.StartedAt.IsZero())
}

func TestRecordFail(t *testing.T) {
	r := NewRecord("walk")
	r.Fail(nil)
	assert.Equal(t, StatusOK, r.Status)

	r.Fail(errors.New(errors.ErrCodeInvalidSampleCount, "cannot sample 9 of 4 frames"))
	assert.Equal(t, StatusFailed, r.Status)
	assert.Equal(t, "INVALID_SAMPLE_COUNT: cannot sample 9 of 4 frames", r.Error)
}

func TestSQLiteStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	r := NewRecord("motions/walk")
	r.Mode = "composite"
	r.Frames = 20
	r.Items = 5
	r.Duration = 1500 * time.Millisecond
	require.NoError(t, s.Save(ctx, r))

	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Dir, got.Dir)
	assert.Equal(t, 5, got.Items)
	assert.Equal(t, r.Duration, got.Duration)

	r.Fail(fmt.Errorf("blender crashed"))
	require.NoError(t, s.Save(ctx, r))
	got, err = s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
}

func TestSQLiteStoreGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get() error = %v, want NOT_FOUND", err)
	}
}

func TestSQLiteStoreList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		dir := "walk"
		if i%2 == 1 {
			dir = "run"
		}
		r := NewRecord(dir)
		r.StartedAt = base.Add(time.Duration(i) * time.Minute)
		r.Frames = i
		require.NoError(t, s.Save(ctx, r))
	}

	tests := []struct {
		name   string
		opts   ListOptions
		frames []int
	}{
		{"all", ListOptions{}, []int{4, 3, 2, 1, 0}},
		{"limit", ListOptions{Limit: 2}, []int{4, 3}},
		{"dir", ListOptions{Dir: "run"}, []int{3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(ctx, tt.opts)
			require.NoError(t, err)
			var frames []int
			for _, r := range got {
				frames = append(frames, r.Frames)
			}
			assert.Equal(t, tt.frames, frames)
		})
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	require.NoError(t, s.Save(ctx, NewRecord("walk")))
	list, err := s.List(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = s.Get(ctx, "x")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.NoError(t, s.Close())
}
