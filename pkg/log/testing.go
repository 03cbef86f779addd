package log

import (
	"bytes"
	"sync"
)

// TestBuffer is a goroutine-safe buffer for capturing log output in tests.
type TestBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *TestBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns the captured output.
func (b *TestBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Reset clears the captured output.
func (b *TestBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// NewTestLoggerProvider returns a provider whose loggers write JSON records to
// the returned buffer. Intended for asserting on log output in tests.
func NewTestLoggerProvider(level Level) (LoggerProvider, *TestBuffer) {
	buf := &TestBuffer{}
	return NewZerologProviderWithWriter(buf, level), buf
}
