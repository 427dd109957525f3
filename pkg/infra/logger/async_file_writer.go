package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultQueueSize     = 1000
	defaultFlushInterval = 2 * time.Second
)

// AsyncFileWriter queues log lines and appends them to a file from a single
// goroutine. A full queue drops the line and counts it instead of blocking
// the request path.
type AsyncFileWriter struct {
	file     *os.File
	buf      *bufio.Writer
	lines    chan []byte
	interval time.Duration
	dropped  atomic.Uint64

	closeOnce sync.Once
	done      chan struct{}
	stopped   chan struct{}
}

func NewAsyncFileWriter(path string, bufferSize int) (*AsyncFileWriter, error) {
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	w := &AsyncFileWriter{
		file:     file,
		buf:      bufio.NewWriterSize(file, bufferSize),
		lines:    make(chan []byte, defaultQueueSize),
		interval: defaultFlushInterval,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	line := make([]byte, len(p))
	copy(line, p)
	select {
	case w.lines <- line:
	default:
		w.dropped.Add(1)
	}
	return len(p), nil
}

// Dropped is the number of lines discarded because the queue was full.
func (w *AsyncFileWriter) Dropped() uint64 {
	return w.dropped.Load()
}

func (w *AsyncFileWriter) run() {
	defer close(w.stopped)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case line := <-w.lines:
			w.write(line)
		case <-ticker.C:
			_ = w.buf.Flush()
		case <-w.done:
			for {
				select {
				case line := <-w.lines:
					w.write(line)
				default:
					_ = w.buf.Flush()
					return
				}
			}
		}
	}
}

func (w *AsyncFileWriter) write(line []byte) {
	if _, err := w.buf.Write(line); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "log file write failed:", err)
	}
}

// Close drains queued lines, flushes and closes the file. Later calls are
// no-ops.
func (w *AsyncFileWriter) Close() {
	w.closeOnce.Do(func() {
		close(w.done)
		<-w.stopped
		_ = w.file.Close()
	})
}
