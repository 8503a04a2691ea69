package launcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet(cfg Config) Config {
	cfg.Stdout = io.Discard
	cfg.Stderr = io.Discard
	return cfg
}

func waitExit(t *testing.T, l *Launcher) {
	t.Helper()
	select {
	case <-l.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit")
	}
}

func TestStartIsIdempotentWhileRunning(t *testing.T) {
	dir := t.TempDir()
	l := New(quiet(Config{
		Dir:     dir,
		Command: []string{"sh", "-c", "echo started >> spawns.log; exec sleep 30"},
	}), nil)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = l.Stop(ctx)
	})

	require.NoError(t, l.Start())
	pid := l.PID()
	require.NotZero(t, pid)

	require.NoError(t, l.Start())
	assert.Equal(t, pid, l.PID())
	assert.True(t, l.Running())

	logPath := filepath.Join(dir, "spawns.log")
	require.Eventually(t, func() bool {
		_, err := os.Stat(logPath)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "started"))
}

func TestStartAgainAfterExit(t *testing.T) {
	dir := t.TempDir()
	l := New(quiet(Config{
		Dir:     dir,
		Command: []string{"sh", "-c", "echo started >> spawns.log"},
	}), nil)

	require.NoError(t, l.Start())
	waitExit(t, l)
	assert.False(t, l.Running())

	require.NoError(t, l.Start())
	waitExit(t, l)

	data, err := os.ReadFile(filepath.Join(dir, "spawns.log"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "started"))
}

func TestStartPassesEnvironment(t *testing.T) {
	dir := t.TempDir()
	l := New(quiet(Config{
		Dir:     dir,
		Command: []string{"sh", "-c", `printf %s "$PY_URL" > url.txt`},
		Env:     []string{"PY_URL=http://127.0.0.1:8000/event"},
	}), nil)

	require.NoError(t, l.Start())
	waitExit(t, l)

	data, err := os.ReadFile(filepath.Join(dir, "url.txt"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000/event", string(data))
}

func TestStartErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing dir", Config{Dir: filepath.Join(t.TempDir(), "nope"), Command: []string{"sleep", "1"}}},
		{"unknown command", Config{Dir: t.TempDir(), Command: []string{"wabridge-no-such-command-xyz"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(quiet(tt.cfg), nil)
			require.Error(t, l.Start())
			assert.False(t, l.Running())
			assert.Zero(t, l.PID())
		})
	}
}

func TestStartEmptyCommand(t *testing.T) {
	l := New(quiet(Config{Dir: t.TempDir()}), nil)
	assert.ErrorIs(t, l.Start(), ErrNoCommand)
}

func TestStop(t *testing.T) {
	l := New(quiet(Config{Dir: t.TempDir(), Command: []string{"sleep", "30"}}), nil)

	// Nothing spawned yet.
	require.NoError(t, l.Stop(context.Background()))

	require.NoError(t, l.Start())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Stop(ctx))
	assert.False(t, l.Running())
}
