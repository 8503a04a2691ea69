// Package launcher starts and stops the external gateway process.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
)

// ErrNoCommand is returned by Start when no command is configured.
var ErrNoCommand = errors.New("gateway command is empty")

// Config describes the process to spawn.
type Config struct {
	Dir     string    // working directory
	Command []string  // argv; Command[0] is resolved through PATH
	Env     []string  // KEY=VALUE pairs appended to the current environment
	Stdout  io.Writer // defaults to os.Stdout
	Stderr  io.Writer // defaults to os.Stderr
}

// Launcher owns at most one running gateway process.
type Launcher struct {
	cfg    Config
	logger *slog.Logger

	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// New creates a Launcher. Nothing is spawned until Start is called.
func New(cfg Config, logger *slog.Logger) *Launcher {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{cfg: cfg, logger: logger}
}

// Start spawns the process unless one started earlier is still running,
// in which case it does nothing. Spawn failures are returned as reported
// by os/exec.
func (l *Launcher) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.runningLocked() {
		l.logger.Debug("gateway already running", "pid", l.cmd.Process.Pid)
		return nil
	}
	if len(l.cfg.Command) == 0 {
		return ErrNoCommand
	}

	cmd := exec.Command(l.cfg.Command[0], l.cfg.Command[1:]...)
	cmd.Dir = l.cfg.Dir
	cmd.Env = append(os.Environ(), l.cfg.Env...)
	cmd.Stdout = l.cfg.Stdout
	cmd.Stderr = l.cfg.Stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting gateway %q in %s: %w", l.cfg.Command, l.cfg.Dir, err)
	}

	done := make(chan struct{})
	l.cmd = cmd
	l.done = done
	l.logger.Info("gateway started", "pid", cmd.Process.Pid, "command", l.cfg.Command, "dir", l.cfg.Dir)

	go func() {
		err := cmd.Wait()
		close(done)
		if err != nil {
			l.logger.Warn("gateway exited", "pid", cmd.Process.Pid, "error", err)
			return
		}
		l.logger.Info("gateway exited", "pid", cmd.Process.Pid)
	}()
	return nil
}

// Running reports whether the last spawned process has not exited yet.
func (l *Launcher) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runningLocked()
}

// PID returns the pid of the last spawned process, or 0 if none was spawned.
func (l *Launcher) PID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cmd == nil {
		return 0
	}
	return l.cmd.Process.Pid
}

// Done returns a channel closed when the last spawned process exits. It is
// nil if nothing was spawned.
func (l *Launcher) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

// Stop interrupts the running process and waits for it to exit. If ctx
// expires first the process is killed.
func (l *Launcher) Stop(ctx context.Context) error {
	l.mu.Lock()
	cmd, done := l.cmd, l.done
	running := l.runningLocked()
	l.mu.Unlock()

	if !running {
		return nil
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		// Interrupt is unsupported on some platforms.
		if kerr := cmd.Process.Kill(); kerr != nil {
			return fmt.Errorf("stopping gateway: %w", kerr)
		}
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("killing gateway: %w", err)
		}
		<-done
		return ctx.Err()
	}
}

func (l *Launcher) runningLocked() bool {
	if l.done == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}
