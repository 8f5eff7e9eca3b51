package logio

import (
	"bytes"
	"sync"
)

// Writer is an io.WriteCloser that passes each complete line written to it
// through Logf, e.g. a testing.T's Logf.
type Writer struct {
	Logf func(string, ...interface{})

	mu  sync.Mutex
	buf bytes.Buffer
}

// Write buffers p, then logs any lines it completed.
func (lw *Writer) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.buf.Write(p)
	lw.logLines()
	return len(p), nil
}

// Close logs any final partial line.
func (lw *Writer) Close() error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.logLines()
	if lw.buf.Len() > 0 {
		lw.Logf("%s", lw.buf.Next(lw.buf.Len()))
	}
	return nil
}

func (lw *Writer) logLines() {
	for {
		i := bytes.IndexByte(lw.buf.Bytes(), '\n')
		if i < 0 {
			return
		}
		lw.Logf("%s", lw.buf.Next(i))
		lw.buf.Next(1)
	}
}
