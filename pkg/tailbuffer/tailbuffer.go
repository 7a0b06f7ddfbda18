// Package tailbuffer provides a bounded writer that keeps only the most
// recent bytes written to it.
package tailbuffer

import (
	"io"
	"sync"
)

// TailBuffer retains the last Size bytes written. Reading drains it.
type TailBuffer struct {
	mu   sync.Mutex
	buf  []byte
	size int
}

// NewTailBuffer creates a TailBuffer retaining at most size bytes.
func NewTailBuffer(size int) *TailBuffer {
	return &TailBuffer{buf: make([]byte, 0, size), size: size}
}

// Write implements io.Writer. It never fails.
func (t *TailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(p)
	if n >= t.size {
		t.buf = append(t.buf[:0], p[n-t.size:]...)
		return n, nil
	}
	if overflow := len(t.buf) + n - t.size; overflow > 0 {
		t.buf = append(t.buf[:0], t.buf[overflow:]...)
	}
	t.buf = append(t.buf, p...)
	return n, nil
}

// Read implements io.Reader, draining the retained bytes.
func (t *TailBuffer) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(p, t.buf)
	t.buf = append(t.buf[:0], t.buf[n:]...)
	return n, nil
}

// String returns the retained bytes without draining them.
func (t *TailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
