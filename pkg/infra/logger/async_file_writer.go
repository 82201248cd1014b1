package logger

import (
	"bufio"
	"os"
	"path/filepath"
	"time"
)

const (
	logQueueDepth = 1000
	flushInterval = 2 * time.Second
)

// AsyncFileWriter decouples request handling from log file I/O: Write
// enqueues the line and a single goroutine drains the queue into a
// buffered file, flushing on an interval. When the queue is full the
// line is dropped rather than stalling the caller.
type AsyncFileWriter struct {
	file    *os.File
	buf     *bufio.Writer
	queue   chan []byte
	quit    chan struct{}
	stopped chan struct{}
}

func NewAsyncFileWriter(logFile string, bufferSize int) (*AsyncFileWriter, error) {
	file, err := os.OpenFile(filepath.Clean(logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}

	w := &AsyncFileWriter{
		file:    file,
		buf:     bufio.NewWriterSize(file, bufferSize),
		queue:   make(chan []byte, logQueueDepth),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Write never blocks. The slice is copied because logrus reuses its
// buffer after Write returns.
func (w *AsyncFileWriter) Write(p []byte) (int, error) {
	line := make([]byte, len(p))
	copy(line, p)
	select {
	case w.queue <- line:
	default:
	}
	return len(p), nil
}

func (w *AsyncFileWriter) run() {
	defer close(w.stopped)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case line := <-w.queue:
			w.buf.Write(line) //nolint:errcheck
		case <-ticker.C:
			w.buf.Flush() //nolint:errcheck
		case <-w.quit:
			w.drain()
			return
		}
	}
}

// drain empties what is still queued so shutdown does not lose lines.
func (w *AsyncFileWriter) drain() {
	for {
		select {
		case line := <-w.queue:
			w.buf.Write(line) //nolint:errcheck
		default:
			w.buf.Flush() //nolint:errcheck
			return
		}
	}
}

// Close stops the writer goroutine, flushes the queue and closes the
// underlying file.
func (w *AsyncFileWriter) Close() {
	close(w.quit)
	<-w.stopped
	w.file.Close() //nolint:errcheck
}
