package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}
	assert.True(t, d.Pending())

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())
}

func TestDebouncerRunsLastCallback(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var got atomic.Int32
	d.Trigger(func() { got.Store(1) })
	d.Trigger(func() { got.Store(2) })

	assert.Eventually(t, func() bool { return got.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	d.Trigger(func() { calls.Add(1) })

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, d.Pending())
}

func TestIsNoise(t *testing.T) {
	tests := map[string]bool{
		"note.md":           false,
		"Makefile":          false,
		".hidden":           true,
		".#note.md":         true,
		"note.md~":          true,
		".note.md.swp":      true,
		"note.swx":          true,
		"4913":              true,
		".notes.json.1.tmp": true,
		"paper.synctex.gz":  false,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsNoise(name), name)
	}
}

func TestCarriesContent(t *testing.T) {
	assert.True(t, carriesContent("a.md"))
	assert.True(t, carriesContent("a.py"))
	assert.True(t, carriesContent("a.ipynb"))
	assert.False(t, carriesContent("a.pdf"))
	assert.False(t, carriesContent("a.zip"))
}

func TestWatcherReportsStructuralChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "existing"), 0o755))

	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var changes atomic.Int32
	w, err := New(root, d, func() { changes.Add(1) }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// step waits for earlier events to drain, then expects action to cause
	// at least one more callback.
	step := func(action func() error) {
		t.Helper()
		assert.Eventually(t, func() bool { return !d.Pending() }, 2*time.Second, 10*time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		assert.Eventually(t, func() bool { return !d.Pending() }, 2*time.Second, 10*time.Millisecond)

		before := changes.Load()
		require.NoError(t, action())
		assert.Eventually(t, func() bool { return changes.Load() > before }, 2*time.Second, 10*time.Millisecond)
	}

	step(func() error { return os.WriteFile(filepath.Join(root, "a.md"), []byte("x"), 0o644) })
	step(func() error { return os.WriteFile(filepath.Join(root, "existing", "b.md"), []byte("x"), 0o644) })
	step(func() error { return os.Mkdir(filepath.Join(root, "fresh"), 0o755) })
	step(func() error { return os.WriteFile(filepath.Join(root, "fresh", "c.md"), []byte("x"), 0o644) })
	step(func() error { return os.WriteFile(filepath.Join(root, "a.md"), []byte("edited"), 0o644) })
	step(func() error { return os.Remove(filepath.Join(root, "a.md")) })

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcherIgnoresNoise(t *testing.T) {
	root := t.TempDir()

	d := NewDebouncer(20 * time.Millisecond)
	defer d.Stop()

	var changes atomic.Int32
	w, err := New(root, d, func() { changes.Add(1) }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(root, ".note.md.swp"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "4913"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "draft.md~"), []byte("x"), 0o644))

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), changes.Load())
}

func TestNewFailsForMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), NewDebouncer(time.Millisecond), func() {}, nil)
	assert.Error(t, err)
}
