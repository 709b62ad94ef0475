package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
)

// ResponseWriter records the status and body size for metrics and the error
// handler, and runs pre-write hooks (session cookie flush) exactly once,
// before the header is committed.
type ResponseWriter struct {
	http.ResponseWriter

	mu          sync.Mutex
	beforeWrite []func()
	committed   bool
	status      int
	size        int64
}

// NewResponseWriter wraps w. The status defaults to 200 until set.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// OnBeforeWrite registers fn to run before the header is committed.
// Hooks registered after the commit never run.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	w.beforeWrite = append(w.beforeWrite, fn)
	w.mu.Unlock()
}

// WriteHeader commits code. Later calls are ignored.
func (w *ResponseWriter) WriteHeader(code int) {
	w.commit(code)
}

// Write commits the current status on first use and writes b.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.commit(0)
	n, err := w.ResponseWriter.Write(b)
	w.mu.Lock()
	w.size += int64(n)
	w.mu.Unlock()
	return n, err
}

// commit runs the hooks and writes the header once. code 0 keeps the
// recorded status.
func (w *ResponseWriter) commit(code int) {
	w.mu.Lock()
	if w.committed {
		w.mu.Unlock()
		return
	}
	w.committed = true
	if code != 0 {
		w.status = code
	}
	hooks := w.beforeWrite
	w.beforeWrite = nil
	status := w.status
	w.mu.Unlock()

	// Hooks may set headers, so they run before WriteHeader.
	for _, fn := range hooks {
		fn()
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *ResponseWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Written reports whether the header has been committed.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.committed
}

func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		w.commit(0)
		f.Flush()
	}
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
