package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"resultroad/internal/adapters/http/perf"
)

// getSlowRequestThreshold reads RESULTROAD_SLOW_REQUEST_MS, defaulting
// to 500ms.
func getSlowRequestThreshold() time.Duration {
	if v := os.Getenv("RESULTROAD_SLOW_REQUEST_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return 500 * time.Millisecond
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer so SSE streams keep working
// behind the timing wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

var statusWriterPool = sync.Pool{
	New: func() interface{} { return &statusWriter{} },
}

// Timing returns middleware that records request durations into the
// collector and logs requests slower than the threshold. Static asset
// requests are skipped.
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	threshold := getSlowRequestThreshold()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}
			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = 0
			start := time.Now()
			next.ServeHTTP(sw, r)
			duration := time.Since(start)
			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}
			sw.ResponseWriter = nil
			statusWriterPool.Put(sw)

			if duration > threshold {
				slog.Warn("slow_request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"duration_ms", duration.Milliseconds())
			}
			if collector != nil {
				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Path:       r.Method + " " + r.URL.Path,
					StatusCode: status,
					DurationMs: float64(duration.Microseconds()) / 1000,
					Timestamp:  start,
				})
			}
		})
	}
}
