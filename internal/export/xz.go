package export

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
)

// XZWriter pipes bytes through an external xz process into <dir>/<name>.csv.xz
type XZWriter struct {
	file    *os.File
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	path    string
	mu      sync.Mutex
	closed  bool
	waitErr error
	waitCh  chan struct{}
}

// NewXZWriter starts `xz -c -<preset>` writing into the target file.
// Presets outside 0..9 fall back to 6.
func NewXZWriter(dir, name string, preset int) (*XZWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, name+".csv.xz")
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	if preset < 0 || preset > 9 {
		preset = 6
	}

	cmd := exec.Command("xz", "-c", fmt.Sprintf("-%d", preset))
	cmd.Stdout = file
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to start xz: %w", err)
	}

	w := &XZWriter{
		file:   file,
		cmd:    cmd,
		stdin:  stdin,
		path:   path,
		waitCh: make(chan struct{}),
	}
	go func() {
		w.waitErr = cmd.Wait()
		close(w.waitCh)
	}()
	return w, nil
}

func (w *XZWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, ErrClosed
	}
	return w.stdin.Write(p)
}

// Close sends EOF to xz, waits for it to exit and closes the file. An xz
// failure is reported ahead of a file close failure.
func (w *XZWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.stdin.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to close xz stdin: %w", err)
	}
	<-w.waitCh

	fileErr := w.file.Close()
	if w.waitErr != nil {
		return fmt.Errorf("xz process failed: %w", w.waitErr)
	}
	if fileErr != nil {
		return fmt.Errorf("failed to close output file: %w", fileErr)
	}
	return nil
}

// Path returns the .csv.xz path
func (w *XZWriter) Path() string {
	return w.path
}

// CheckXZAvailable returns an error with install hints when xz is not on PATH
func CheckXZAvailable() error {
	if err := exec.Command("xz", "--version").Run(); err != nil {
		return fmt.Errorf("xz not found: %w\nInstall with: apt install xz-utils (Linux) or brew install xz (macOS)", err)
	}
	return nil
}
