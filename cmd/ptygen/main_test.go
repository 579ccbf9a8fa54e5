package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slavePathPattern = regexp.MustCompile(`^/dev/(pts/\d+|ttys\d+|tty[p-za-e][0-9a-f])$`)

// TestHelperProcess is not a real test. It runs ptygen inside a child
// process started by helperCommand.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("PTYGEN_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) > 0 {
		args = args[1:]
	}

	var opener func() (*os.File, *os.File, error)
	if os.Getenv("PTYGEN_FAIL_ALLOCATION") == "1" {
		opener = func() (*os.File, *os.File, error) {
			return nil, nil, syscall.EAGAIN
		}
	}

	os.Exit(run(args, os.Stdout, os.Stderr, opener))
}

func helperCommand(ctx context.Context, t *testing.T, env []string, args ...string) *exec.Cmd {
	t.Helper()

	cmd := exec.CommandContext(ctx, os.Args[0], append([]string{"-test.run=^TestHelperProcess$", "--"}, args...)...)
	// an empty HOME keeps the developer's own config file out of the run
	cmd.Env = append(os.Environ(), "PTYGEN_HELPER_PROCESS=1", "HOME="+t.TempDir())
	cmd.Env = append(cmd.Env, env...)
	return cmd
}

type runningHelper struct {
	cmd    *exec.Cmd
	stdout *bufio.Reader
	stderr *bytes.Buffer
	exited chan error
}

func startHelper(t *testing.T, env []string, args ...string) *runningHelper {
	t.Helper()

	cmd := helperCommand(context.Background(), t, env, args...)
	r, w, err := os.Pipe()
	require.NoError(t, err)
	cmd.Stdout = w
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	require.NoError(t, cmd.Start())
	w.Close()
	t.Cleanup(func() { r.Close() })

	h := &runningHelper{cmd: cmd, stdout: bufio.NewReader(r), stderr: stderr, exited: make(chan error, 1)}
	t.Cleanup(func() { cmd.Process.Kill() })
	return h
}

func (h *runningHelper) readLine(t *testing.T, timeout time.Duration) string {
	t.Helper()

	lines := make(chan string, 1)
	errs := make(chan error, 1)
	go func() {
		line, err := h.stdout.ReadString('\n')
		if err != nil {
			errs <- err
			return
		}
		lines <- line
	}()

	select {
	case line := <-lines:
		return line
	case err := <-errs:
		t.Fatalf("reading stdout: %v", err)
	case <-time.After(timeout):
		t.Fatalf("no stdout line within %s", timeout)
	}
	return ""
}

func (h *runningHelper) wait() {
	go func() { h.exited <- h.cmd.Wait() }()
}

func TestAnnouncesPathAndSpinsUntilKilled(t *testing.T) {
	h := startHelper(t, nil)

	line := h.readLine(t, 2*time.Second)
	assert.Regexp(t, slavePathPattern, line[:len(line)-1])
	assert.Equal(t, byte('\n'), line[len(line)-1])

	h.wait()
	select {
	case err := <-h.exited:
		t.Fatalf("process exited on its own: %v", err)
	case <-time.After(time.Second):
	}

	require.NoError(t, h.cmd.Process.Kill())
	err := <-h.exited

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.False(t, h.cmd.ProcessState.Exited(), "termination had to be forced")

	// one core was busy for most of the sampling window
	cpu := h.cmd.ProcessState.UserTime() + h.cmd.ProcessState.SystemTime()
	assert.Greater(t, cpu, 500*time.Millisecond)

	rest, err := io.ReadAll(h.stdout)
	assert.NoError(t, err)
	assert.Empty(t, rest, "exactly one line is written")
	assert.Empty(t, h.stderr.String(), "a bare run logs nothing")
}

func TestInvalidDefaultConfigDoesNotPreventAnnouncement(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".ptygen"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".ptygen", "config.yml"), []byte("hold: nap\n"), 0644))

	h := startHelper(t, []string{"HOME=" + home})

	line := h.readLine(t, 2*time.Second)
	assert.Regexp(t, slavePathPattern, line[:len(line)-1])

	h.wait()
	select {
	case err := <-h.exited:
		t.Fatalf("process exited on its own: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, h.cmd.Process.Kill())
	<-h.exited
	assert.Contains(t, h.stderr.String(), "Warning: ignoring")
	assert.Contains(t, h.stderr.String(), `unknown hold mode "nap"`)
}

func TestBlockModeReleasesOnInterrupt(t *testing.T) {
	h := startHelper(t, nil, "--hold", "block")

	line := h.readLine(t, 2*time.Second)
	assert.Regexp(t, slavePathPattern, line[:len(line)-1])

	h.wait()
	select {
	case err := <-h.exited:
		t.Fatalf("process exited on its own: %v", err)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, h.cmd.Process.Signal(syscall.SIGINT))

	select {
	case err := <-h.exited:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("process ignored SIGINT in block mode")
	}

	// blocking leaves the CPU idle
	assert.Less(t, h.cmd.ProcessState.UserTime(), 500*time.Millisecond)

	rest, err := io.ReadAll(h.stdout)
	assert.NoError(t, err)
	assert.Empty(t, rest)
}

func TestAllocationFailureExitsNonZeroWithoutOutput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := helperCommand(ctx, t, []string{"PTYGEN_FAIL_ALLOCATION=1"})

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "pty allocation failed")
}

func TestRunRejectsBadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run([]string{"--hold", "sleep"}, &stdout, &stderr, nil))
	assert.Equal(t, 2, run([]string{"extra"}, &stdout, &stderr, nil))
	assert.Empty(t, stdout.String())
	assert.NotEmpty(t, stderr.String())
}

func TestRunHelpGoesToStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 0, run([]string{"--help"}, &stdout, &stderr, nil))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "--hold")
}

func TestRunRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("hold: nap\n"), 0644))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"--config", path}, &stdout, &stderr, nil))
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "Failed to load config")
}
